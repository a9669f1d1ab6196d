package mealdb

var categories = []string{
	"Beef", "Chicken", "Dessert", "Lamb", "Miscellaneous", "Pasta", "Pork",
	"Seafood", "Side", "Starter", "Vegan", "Vegetarian", "Breakfast", "Goat",
}

var areas = []string{
	"American", "British", "Canadian", "Chinese", "Croatian", "Dutch", "Egyptian",
	"Filipino", "French", "Greek", "Indian", "Irish", "Italian", "Jamaican",
	"Japanese", "Kenyan", "Malaysian", "Mexican", "Moroccan", "Polish",
	"Portuguese", "Russian", "Spanish", "Thai", "Tunisian", "Turkish",
	"Ukrainian", "Vietnamese",
}

// Categories returns the category filter values offered to users.
func Categories() []string {
	return append([]string{}, categories...)
}

// Areas returns the cuisine filter values offered to users.
func Areas() []string {
	return append([]string{}, areas...)
}
