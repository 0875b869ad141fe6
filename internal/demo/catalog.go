package demo

// catalogItem is one demo item. Category refers to a catalog category name.
type catalogItem struct {
	Name     string
	Quantity int
	Category string
	Fields   [][2]string
}

// Categories are created in this order.
var catalogCategories = []string{"Cables", "Snacks", "Office", "Tools", "Electronics"}

var catalogItems = []catalogItem{
	{"Ethernet Cable 3 m", 2, "Cables", [][2]string{{"Color", "White"}, {"Length", "3 m"}, {"Type", "Cat6"}}},
	{"HDMI Cable 2 m", 1, "Cables", [][2]string{{"Version", "2.1"}, {"Length", "2 m"}}},
	{"Extension Cable 5 m", 3, "Cables", [][2]string{{"Color", "Black"}, {"Outlets", "3 sockets"}}},
	{"Paprika Chips", 2, "Snacks", [][2]string{{"Brand", "Lay’s"}, {"Contents", "200 g"}}},
	{"Chocolate Bar", 4, "Snacks", [][2]string{{"Brand", "Côte d’Or"}, {"Type", "Milk"}}},
	{"A5 Notebook", 5, "Office", [][2]string{{"Pages", "80"}, {"Color", "Blue"}}},
	{"Blue Ballpoint Pen", 10, "Office", [][2]string{{"Brand", "Bic"}, {"Type", "Crystal Medium"}}},
	{"Screwdriver Set", 1, "Tools", [][2]string{{"Pieces", "6-piece"}, {"Type", "Phillips & Flat"}}},
	{"Drill", 1, "Tools", [][2]string{{"Brand", "Bosch"}, {"Power", "750 W"}}},
	{"Power Bank 10,000 mAh", 2, "Electronics", [][2]string{{"Brand", "Anker"}, {"Color", "Black"}}},
	{"Bluetooth Speaker", 1, "Electronics", [][2]string{{"Brand", "JBL"}, {"Waterproof", "Yes"}}},
}
