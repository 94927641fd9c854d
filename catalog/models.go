package catalog

import "time"

// Category tags a gallery image. The set is closed, see Categories.
type Category string

const (
	NoFilter Category = ""

	Haircut Category = "haircut"
	Styling Category = "styling"
	Color   Category = "color"
	Salon   Category = "salon"
)

type GalleryImage struct {
	ID       int      `yaml:"id" json:"id"`
	Src      string   `yaml:"src" json:"src"`
	Alt      string   `yaml:"alt" json:"alt"`
	Width    int      `yaml:"width" json:"width"`
	Height   int      `yaml:"height" json:"height"`
	Category Category `yaml:"category" json:"category"`
}

type Testimonial struct {
	ID     int    `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Rating int    `yaml:"rating" json:"rating"`
	Text   string `yaml:"text" json:"text"`
	Image  string `yaml:"image,omitempty" json:"image,omitempty"`
}

// Highlight is a service card on the landing page.
type Highlight struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	PriceRange  string `yaml:"price_range" json:"price_range"`
	Image       string `yaml:"image" json:"image"`
	Icon        string `yaml:"icon" json:"icon"`
}

type Service struct {
	Name            string `yaml:"name" json:"name"`
	DurationMinutes int    `yaml:"duration" json:"duration_minutes"`
	Price           int    `yaml:"price" json:"price"`
	Description     string `yaml:"description" json:"description"`
}

type ServiceCategory struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	Image       string    `yaml:"image" json:"image"`
	Services    []Service `yaml:"services" json:"services"`
}

type Product struct {
	ID          int    `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	// Price is in agorot.
	Price int64  `yaml:"price" json:"price"`
	Image string `yaml:"image" json:"image"`
}

type Promotion struct {
	ID          int    `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	ValidUntil  string `yaml:"valid_until" json:"valid_until"`
	Image       string `yaml:"image" json:"image"`
	Discount    string `yaml:"discount" json:"discount"`
	Icon        string `yaml:"icon" json:"icon"`
}

type Stylist struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Specialty string `yaml:"specialty" json:"specialty"`
	Image     string `yaml:"image" json:"image"`
	Bio       string `yaml:"bio,omitempty" json:"bio,omitempty"`
}

type BusinessHours struct {
	Weekday time.Weekday `yaml:"weekday" json:"weekday"`
	Day     string       `yaml:"day" json:"day"`
	Hours   string       `yaml:"hours" json:"hours"`
}

type ContactInfo struct {
	Address   string  `yaml:"address" json:"address"`
	Phone     string  `yaml:"phone" json:"phone"`
	Email     string  `yaml:"email" json:"email"`
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
	MapLabel  string  `yaml:"map_label" json:"map_label"`
	Facebook  string  `yaml:"facebook" json:"facebook"`
	Instagram string  `yaml:"instagram" json:"instagram"`
	WhatsApp  string  `yaml:"whatsapp" json:"whatsapp"`
}

// About holds the salon narrative. Empty fields fall back to DefaultAbout.
type About struct {
	SalonName string   `yaml:"salon_name" json:"salon_name"`
	History   string   `yaml:"history" json:"history"`
	Mission   string   `yaml:"mission" json:"mission"`
	Values    []string `yaml:"values" json:"values"`
}

// Catalog is the full compiled-in site content.
type Catalog struct {
	Gallery      []GalleryImage    `yaml:"gallery"`
	Testimonials []Testimonial     `yaml:"testimonials"`
	Highlights   []Highlight       `yaml:"highlights"`
	Services     []ServiceCategory `yaml:"services"`
	Products     []Product         `yaml:"products"`
	Promotions   []Promotion       `yaml:"promotions"`
	Stylists     []Stylist         `yaml:"stylists"`
	Hours        []BusinessHours   `yaml:"hours"`
	Contact      ContactInfo       `yaml:"contact"`
	About        About             `yaml:"about"`
}
