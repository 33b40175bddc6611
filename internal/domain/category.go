package domain

import "strings"

// Category is one of the fixed set of income/expense categories. The values
// are the exact Vietnamese strings written to the Category column and fed to
// the model's prompt, so they must not be translated or reformatted.
type Category string

const (
	CategoryFoodDrink     Category = "Ăn uống & Đồ uống"
	CategoryTransport     Category = "Đi lại"
	CategoryHousing       Category = "Nhà ở"
	CategoryShopping      Category = "Mua sắm"
	CategoryEntertainment Category = "Giải trí"
	CategoryHealth        Category = "Sức khỏe"
	CategoryEducation     Category = "Giáo dục"
	CategoryBills         Category = "Hóa đơn & Tiện ích"
	CategoryPersonal      Category = "Cá nhân"
	CategoryLending       Category = "Cho vay"
	CategoryBorrowing     Category = "Vay tiền"
	CategoryOther         Category = "Khác"
)

// Categories is the closed category set, in prompt order.
var Categories = []Category{
	CategoryFoodDrink,
	CategoryTransport,
	CategoryHousing,
	CategoryShopping,
	CategoryEntertainment,
	CategoryHealth,
	CategoryEducation,
	CategoryBills,
	CategoryPersonal,
	CategoryLending,
	CategoryBorrowing,
	CategoryOther,
}

var categorySet = func() map[Category]bool {
	set := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		set[c] = true
	}
	return set
}()

// NormalizeCategory maps free text onto the closed set. Anything outside the
// set, including empty input, becomes CategoryOther; the model is not
// contractually guaranteed to obey the whitelist.
func NormalizeCategory(s string) Category {
	c := Category(strings.TrimSpace(s))
	if categorySet[c] {
		return c
	}
	return CategoryOther
}
