package cart

// seedItems is the built-in cart used when nothing valid is persisted yet.
func seedItems() []Item {
	return []Item{
		{
			ID:            "crs-go-101",
			Title:         "Go for Working Developers",
			Instructor:    "Amina Yusuf",
			Image:         "/img/courses/go-101.jpg",
			Duration:      "12h 30m",
			Students:      "14,205 students",
			Rating:        4.7,
			RatingCount:   "3,812",
			Price:         12900,
			OriginalPrice: 49900,
			Discount:      74,
			Tag:           "Bestseller",
		},
		{
			ID:          "crs-sql-204",
			Title:       "Practical SQL and Data Modeling",
			Instructor:  "Daniel Otieno",
			Image:       "/img/courses/sql-204.jpg",
			Duration:    "9h 15m",
			Students:    "8,930 students",
			Rating:      4.5,
			RatingCount: "2,104",
			Price:       9900,
		},
		{
			ID:            "crs-web-310",
			Title:         "Modern Web Interfaces",
			Instructor:    "Grace Wanjiru",
			Image:         "/img/courses/web-310.jpg",
			Duration:      "15h 45m",
			Students:      "21,044 students",
			Rating:        4.8,
			RatingCount:   "6,477",
			Price:         14900,
			OriginalPrice: 29900,
			Discount:      50,
			Tag:           "Hot & New",
		},
	}
}
