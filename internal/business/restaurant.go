package business

import (
	"fmt"
	"strings"
)

func init() {
	register("restaurant", func() Profile { return &restaurantProfile{} })
}

// restaurantProfile answers menu and hours questions from the
// restaurant tables.
type restaurantProfile struct{}

var menuItems = map[string]struct {
	Price       string
	Description string
}{
	"chicken shawarma": {"$8.99", "marinated chicken with garlic sauce and pickles in fresh pita"},
	"beef shawarma":    {"$9.99", "slow-roasted beef with tahini and grilled vegetables"},
	"falafel wrap":     {"$7.49", "crispy falafel with hummus, salad and pickled turnips"},
	"mixed grill":      {"$15.99", "chicken, beef and kofta skewers with rice and salad"},
}

var dietaryOptions = []string{"vegetarian", "halal", "gluten-free"}

const businessHours = "Monday to Thursday 11 AM to 10 PM, Friday and Saturday 11 AM to 11 PM, Sunday 12 PM to 9 PM"

func (p *restaurantProfile) Domain() string { return "restaurant" }

func (p *restaurantProfile) Answer(utterance string) (string, bool) {
	lower := strings.ToLower(utterance)

	for item, d := range menuItems {
		if strings.Contains(lower, item) {
			return fmt.Sprintf("Our %s is %s: %s.", item, d.Price, d.Description), true
		}
	}

	if strings.Contains(lower, "hours") || strings.Contains(lower, "open") {
		return "We're open " + businessHours + ".", true
	}

	if strings.Contains(lower, "vegetarian") || strings.Contains(lower, "halal") ||
		strings.Contains(lower, "gluten") || strings.Contains(lower, "dietary") {
		return "We offer " + strings.Join(dietaryOptions, ", ") + " options across the menu.", true
	}

	return "", false
}
