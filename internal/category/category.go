// Package category guesses which aisle category an item belongs to from
// its name. Items get the category as an extra tag so a search for
// "dairy" or "frozen" finds them without hand tagging.
package category

import (
	"cmp"
	"slices"
	"strings"
)

var categories = []struct {
	tag      string
	keywords []string
}{
	{"produce", []string{
		"apple", "banana", "orange", "lemon", "lime", "avocado", "tomato", "potato", "onion",
		"garlic", "lettuce", "spinach", "kale", "broccoli", "carrot", "celery", "cucumber",
		"pepper", "mushroom", "grape", "berries", "melon", "pineapple", "mango", "peach",
		"pear", "cilantro", "basil", "parsley", "ginger", "zucchini", "asparagus", "green beans",
	}},
	{"dairy", []string{
		"milk", "cheese", "cheddar", "butter", "yogurt", "cream", "sour cream", "cottage cheese",
		"eggs", "half and half", "creamer",
	}},
	{"meat & seafood", []string{
		"chicken", "beef", "pork", "turkey", "bacon", "sausage", "ham", "steak", "ground beef",
		"salmon", "shrimp", "tuna steak", "fish", "lamb",
	}},
	{"bakery", []string{
		"bread", "bagel", "muffin", "croissant", "tortilla", "buns", "rolls", "baguette", "cake",
	}},
	{"pantry", []string{
		"rice", "pasta", "flour", "sugar", "salt", "olive oil", "vinegar", "cereal", "oats",
		"peanut butter", "jam", "honey", "canned", "beans", "soup", "sauce", "spice", "tuna",
	}},
	{"frozen", []string{
		"frozen", "ice cream", "popsicle", "frozen pizza", "waffles",
	}},
	{"beverages", []string{
		"water", "juice", "soda", "coffee", "tea", "beer", "wine", "sparkling",
	}},
	{"snacks", []string{
		"chips", "crackers", "pretzels", "popcorn", "cookies", "candy", "chocolate", "nuts",
	}},
	{"household", []string{
		"paper towels", "toilet paper", "dish soap", "detergent", "trash bags", "foil",
		"plastic wrap", "sponge", "bleach",
	}},
	{"personal care", []string{
		"shampoo", "conditioner", "toothpaste", "deodorant", "soap", "lotion", "razor",
	}},
}

type match struct {
	keyword string
	tag     string
}

// byLength holds every keyword, longest first, so "ice cream" wins over
// "cream" and "shampoo" over "ham".
var byLength = func() []match {
	var all []match
	for _, c := range categories {
		for _, k := range c.keywords {
			all = append(all, match{keyword: k, tag: c.tag})
		}
	}
	slices.SortStableFunc(all, func(a, b match) int {
		return cmp.Compare(len(b.keyword), len(a.keyword))
	})
	return all
}()

// Of returns the category tag for an item name, or "" when nothing
// matches. Matching is case-insensitive: an exact keyword first, then the
// longest keyword contained in the name.
func Of(itemName string) string {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return ""
	}
	for _, m := range byLength {
		if m.keyword == name {
			return m.tag
		}
	}
	for _, m := range byLength {
		if strings.Contains(name, m.keyword) {
			return m.tag
		}
	}
	return ""
}

// Tags returns tags with the item's category appended, unless it has no
// category or the tags already name it.
func Tags(itemName string, tags []string) []string {
	c := Of(itemName)
	if c == "" {
		return tags
	}
	for _, t := range tags {
		if strings.EqualFold(strings.TrimSpace(t), c) {
			return tags
		}
	}
	return append(slices.Clip(tags), c)
}
