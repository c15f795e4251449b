package recipe

import (
	"reflect"
	"regexp"
	"strings"

	"recipe-forge/internal/pkg/common"

	"github.com/go-playground/validator/v10"
)

// 結構化食譜文件的固定標籤（schema.org）
const (
	SchemaContext = "https://schema.org"
	TypeRecipe    = "Recipe"
	TypeHowToStep = "HowToStep"
	TypeNutrition = "NutritionInformation"
)

// Ingredient 結構化食材。
// Quantity 一律為數值（不是 "1/2" 這種字串）；Unit 一律為字串，
// 沒有單位時是空字串而不是 null。
type Ingredient struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Note     string  `json:"note,omitempty"`
}

// QuantitySpec 購物清單上的需求量
type QuantitySpec struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// ShoppingListItem 購物清單項目
type ShoppingListItem struct {
	Name             string       `json:"name" validate:"required"`
	RequiredQuantity QuantitySpec `json:"requiredQuantity"`
	PurchaseQuantity float64      `json:"purchaseQuantity"`
	PurchaseUnit     string       `json:"purchaseUnit"`
	PurchaseNote     string       `json:"purchaseNote,omitempty"`
}

// ShoppingList 購物清單
type ShoppingList struct {
	Items      []ShoppingListItem `json:"items" validate:"dive"`
	TotalItems int                `json:"totalItems"`
}

// Instruction 單一步驟。陣列順序是權威順序，Step 只是顯示提示。
type Instruction struct {
	Type            string  `json:"@type" validate:"required,eq=HowToStep"`
	Text            string  `json:"text" validate:"required"`
	Name            string  `json:"name,omitempty"`
	URL             string  `json:"url,omitempty" validate:"omitempty,url"`
	DurationMinutes float64 `json:"durationMinutes,omitempty"`
	Timer           bool    `json:"timer,omitempty"`
	Step            int     `json:"step,omitempty"`
}

// IngredientGroups 食材分組：used 必填，missing/suggested 視模式而定
type IngredientGroups struct {
	Used      []Ingredient `json:"used" validate:"dive"`
	Missing   []Ingredient `json:"missing,omitempty" validate:"omitempty,dive"`
	Suggested []Ingredient `json:"suggested,omitempty" validate:"omitempty,dive"`
}

// Nutrition 營養資訊
type Nutrition struct {
	Type                string `json:"@type" validate:"required,eq=NutritionInformation"`
	Calories            string `json:"calories,omitempty"`
	ProteinContent      string `json:"proteinContent,omitempty"`
	CarbohydrateContent string `json:"carbohydrateContent,omitempty"`
	FatContent          string `json:"fatContent,omitempty"`
	FiberContent        string `json:"fiberContent,omitempty"`
}

// UserFeedback 使用者回饋
type UserFeedback struct {
	Liked *bool  `json:"liked,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Recipe 驗證後的食譜實體。驗證通過後視為不可變，
// 之後唯二的變動是補上 Image 與存檔時指派的 ID。
type Recipe struct {
	ID                 string           `json:"id,omitempty"`
	Context            string           `json:"@context" validate:"required,eq=https://schema.org"`
	Type               string           `json:"@type" validate:"required,eq=Recipe"`
	Name               string           `json:"name" validate:"required"`
	Description        string           `json:"description,omitempty"`
	Image              []string         `json:"image,omitempty" validate:"omitempty,dive,uri"`
	RecipeCuisine      string           `json:"recipeCuisine,omitempty"`
	RecipeCategory     string           `json:"recipeCategory,omitempty"`
	Keywords           string           `json:"keywords,omitempty"`
	RecipeYield        string           `json:"recipeYield" validate:"required"`
	PrepTime           string           `json:"prepTime" validate:"required,ptminutes"`
	CookTime           string           `json:"cookTime" validate:"required,ptminutes"`
	TotalTime          string           `json:"totalTime" validate:"required,ptminutes"`
	RecipeIngredient   []string         `json:"recipeIngredient"`
	Ingredients        IngredientGroups `json:"ingredients"`
	ShoppingList       ShoppingList     `json:"shoppingList"`
	RecipeInstructions []Instruction    `json:"recipeInstructions" validate:"dive"`
	Nutrition          *Nutrition       `json:"nutrition,omitempty"`
	UserFeedback       *UserFeedback    `json:"userFeedback,omitempty"`
	Diet               []string         `json:"diet,omitempty"`
}

var ptMinutesPattern = regexp.MustCompile(`^PT\d+M$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// 錯誤訊息用 json 欄位名，方便對照原始 payload
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	// 時長欄位只接受分鐘制的 PT<N>M 編碼
	_ = v.RegisterValidation("ptminutes", func(fl validator.FieldLevel) bool {
		return ptMinutesPattern.MatchString(fl.Field().String())
	})

	return v
}

// Validate 對照嚴格結構驗證食譜，失敗時返回帶逐欄位診斷的錯誤。
// 這是硬邊界：到這裡還不合格的資料不再嘗試修復。
func (r *Recipe) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return common.NewSchemaValidationError([]common.FieldError{
			{Path: "recipe", Reason: err.Error()},
		})
	}

	fields := make([]common.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		path := strings.TrimPrefix(fe.Namespace(), "Recipe.")
		reason := "failed rule '" + fe.Tag() + "'"
		if fe.Param() != "" {
			reason += " (" + fe.Param() + ")"
		}
		fields = append(fields, common.FieldError{Path: path, Reason: reason})
	}
	return common.NewSchemaValidationError(fields)
}
