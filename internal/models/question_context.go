package models

// QuestionContext is a question joined with its category and
// subcategory display names, the shape the delivery protocol returns.
// Names fall back to "Unknown category"/"Unknown subcategory" when the
// authoring rows were deleted after the fact.
type QuestionContext struct {
	QuestionID       uint   `json:"questionId"`
	Text             string `json:"text"`
	QuestionOrder    int    `json:"questionOrder"`
	SubcategoryOrder int    `json:"subcategoryOrder"`
	CategoryName     string `json:"categoryName"`
	SubcategoryName  string `json:"subcategoryName"`
}
