package cart

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/sokoni/core"
)

var errDiscountWithoutBase = errors.New("a discounted item needs its original price")

// Item is one catalog course placed in the cart.
// Items are immutable: the store replaces them wholesale, never in place.
type Item struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Instructor    string  `json:"instructor"`
	Image         string  `json:"image"`
	Duration      string  `json:"duration"`
	Students      string  `json:"students"`
	Rating        float64 `json:"rating"`
	RatingCount   string  `json:"rating_count"`
	Price         int     `json:"price"` // minor currency unit
	OriginalPrice int     `json:"original_price,omitempty"`
	Discount      int     `json:"discount,omitempty"` // percent
	Tag           string  `json:"tag,omitempty"`
}

// Savings is the discount amount on this item, never negative.
func (it Item) Savings() int {
	if it.OriginalPrice > it.Price {
		return it.OriginalPrice - it.Price
	}
	return 0
}

// NewItem contains information needed to place an Item in the cart.
type NewItem struct {
	ID            string  `json:"id" validate:"required"`
	Title         string  `json:"title" validate:"required"`
	Instructor    string  `json:"instructor"`
	Image         string  `json:"image"`
	Duration      string  `json:"duration"`
	Students      string  `json:"students"`
	Rating        float64 `json:"rating" validate:"gte=0,lte=5"`
	RatingCount   string  `json:"rating_count"`
	Price         int     `json:"price" validate:"gte=0"`
	OriginalPrice int     `json:"original_price" validate:"omitempty,gtefield=Price"`
	Discount      int     `json:"discount" validate:"gte=0,lte=100"`
	Tag           string  `json:"tag"`
}

func (ni *NewItem) Validate(validate *validator.Validate) error {
	ni.ID = core.CleanString(ni.ID)
	ni.Title = core.CleanString(ni.Title)
	ni.Instructor = core.CleanString(ni.Instructor)
	if err := validate.Struct(ni); err != nil {
		return err
	}
	// a discount percentage with no base price is inconsistent display data
	if ni.Discount > 0 && ni.OriginalPrice == 0 {
		return core.NewValidationError(errDiscountWithoutBase,
			core.FieldError{Field: "discount", Error: errDiscountWithoutBase.Error()})
	}
	return nil
}

func (ni NewItem) Item() Item {
	return Item{
		ID:            ni.ID,
		Title:         ni.Title,
		Instructor:    ni.Instructor,
		Image:         ni.Image,
		Duration:      ni.Duration,
		Students:      ni.Students,
		Rating:        ni.Rating,
		RatingCount:   ni.RatingCount,
		Price:         ni.Price,
		OriginalPrice: ni.OriginalPrice,
		Discount:      ni.Discount,
		Tag:           ni.Tag,
	}
}
