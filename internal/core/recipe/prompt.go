package recipe

import (
	"fmt"
	"strings"
)

// userInstruction 固定的 user 訊息，要求步驟原子且順序清楚
const userInstruction = "Generate a recipe based on the given requirements. " +
	"Make sure the steps are detailed instructions and are atomic and easy to follow."

// buildSystemPrompt 由請求組出確定性的 system prompt。
// 模式決定硬限制的措辭：use-what-i-have 下食材是封閉集合。
func buildSystemPrompt(req *GenerationRequest) string {
	var b strings.Builder

	b.WriteString("You are a professional chef and recipe creator. Create a recipe that matches these requirements and try to use existing recipes as a starting point:\n\n")

	ingredientList := strings.Join(req.Ingredients, ", ")
	if req.Mode == ModeUseWhatIHave {
		fmt.Fprintf(&b, "CRITICAL: You MUST create a recipe that uses ONLY the following ingredients. DO NOT add any other ingredients: %s\n", ingredientList)
	} else {
		fmt.Fprintf(&b, "Create a recipe that PRIMARILY uses these ingredients, but you can suggest additional ones: %s\n", ingredientList)
	}

	b.WriteString("\nRequirements:\n")
	fmt.Fprintf(&b, "- Serve %s people\n", req.Servings)
	fmt.Fprintf(&b, "- Maximum preparation and cooking time: %d minutes\n", req.MaxTimeMinutes)
	if len(req.Cuisines) > 0 {
		fmt.Fprintf(&b, "- Cuisine style: %s\n", strings.Join(req.Cuisines, ", "))
	}
	if req.Hint != "" {
		fmt.Fprintf(&b, "- Additional requirements: %s\n", req.Hint)
	}

	b.WriteString("\n")
	if req.Mode == ModeUseWhatIHave {
		b.WriteString("IMPORTANT: The recipe MUST NOT include ANY ingredients that are not in the provided list. This is a strict requirement.\n")
	} else {
		b.WriteString("You may suggest additional ingredients that complement the provided ones.\n")
	}

	b.WriteString("\nThe description of the recipe should be a short description of the finished meal not focused on the ingredients alone.\n")

	cuisine := "International"
	if len(req.Cuisines) > 0 {
		cuisine = req.Cuisines[0]
	}

	b.WriteString("\nThe response MUST be a valid JSON object with the following structure:\n\n")
	fmt.Fprintf(&b, `{
  "name": "Recipe Name",
  "description": "Brief description of the recipe",
  "recipeIngredient": ["ingredient 1", "ingredient 2", ...],
  "recipeInstructions": [
    {
      "@type": "HowToStep",
      "text": "Step 1 instructions",
      "step": 1
    },
    {
      "@type": "HowToStep",
      "text": "Step 2 instructions",
      "step": 2
    }
  ],
  "ingredients": {
    "used": [
      { "name": "ingredient name", "quantity": 1, "unit": "cup" }
    ],
    "missing": [],
    "suggested": []
  },
  "shoppingList": {
    "items": [
      {
        "name": "ingredient name",
        "requiredQuantity": {
          "amount": 1,
          "unit": "cup"
        },
        "purchaseQuantity": 1,
        "purchaseUnit": "cup"
      }
    ],
    "totalItems": 1
  },
  "recipeCuisine": "%s"
}
`, cuisine)

	b.WriteString(`
Ensure all required fields are present and properly formatted. Return ONLY the JSON object with no additional text.

IMPORTANT: All numeric fields must use actual numbers, not strings. For example:
- Use quantity: 1 (not "1")
- Use quantity: 0.5 (not "1/2")
- Use amount: 2.5 (not "2.5")

If you must use fractions, convert them to decimal numbers (e.g., 1/2 → 0.5, 1/4 → 0.25, etc.).

NEVER use null for unit fields. Always use an empty string "" instead of null when a unit is not applicable.`)

	return b.String()
}
