package product

type Category struct {
	ID    string
	Name  string
	Slug  string
	Image string
}

type Brand struct {
	ID    string
	Name  string
	Slug  string
	Image string
}

type Product struct {
	ID             string
	Title          string
	Slug           string
	Description    string
	Price          float64
	PriceAfterDisc float64
	Quantity       int64
	Sold           int64
	ImageCover     string
	Images         []string
	RatingsAverage float64
	RatingsCount   int64
	Category       Category
	Brand          Brand
}

type ListFilter struct {
	Page       int
	Limit      int
	CategoryID string
	BrandID    string
	Keyword    string
	Sort       string
}

// Page is one page of a product listing.
type Page struct {
	Products      []Product
	Results       int
	CurrentPage   int
	NumberOfPages int
}
