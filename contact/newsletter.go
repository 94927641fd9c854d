package contact

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

type NewsletterForm struct {
	Email string `form:"email" json:"email" binding:"required,email"`
}

// Newsletter keeps sign-ups in memory; addresses are compared case-insensitively.
type Newsletter struct {
	subscribers mapset.Set[string]
}

func NewNewsletter() *Newsletter {
	return &Newsletter{subscribers: mapset.NewSet[string]()}
}

// Subscribe records email and reports whether it was new.
func (n *Newsletter) Subscribe(email string) bool {
	return n.subscribers.Add(strings.ToLower(strings.TrimSpace(email)))
}

func (n *Newsletter) Count() int {
	return n.subscribers.Cardinality()
}
