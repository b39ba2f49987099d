package services

import (
	"fmt"
	"strings"

	"github.com/ammerola/smartstock-be/internal/core/domain"
)

func insightPrompt(items []domain.InventoryItem) string {
	var sb strings.Builder
	sb.WriteString("The following is the item data of an inventory management system. ")
	sb.WriteString("Each item is identified by brand, name, size and color.\n\n")

	for _, item := range items {
		fmt.Fprintf(&sb, "- %s %s (%s/%s): on hand %d, minimum %d, optimal %d, unit price %s\n",
			item.Brand, item.Name, item.Size, item.Color,
			item.Quantity, item.MinQuantity, item.OptimalQuantity, item.Price.String())
	}

	sb.WriteString(`
Analyze the data above and provide:
1. Items that need an urgent order (on hand at or below 50% of the minimum)
2. Items approaching their reorder point
3. Stock health by brand and category
4. Concrete order quantities and amounts

Keep the answer short and to the point.
`)
	return sb.String()
}

func bulkTextPrompt(text string) string {
	return fmt.Sprintf(`Extract the inventory items from the text below and convert them into a JSON array.
Each item must have the fields: brand, name, size, color, quantity, price, category.

Text:
%s

Return only a valid JSON array with no other explanation.
`, text)
}

func csvPrompt(csv string) string {
	return fmt.Sprintf(`Parse the CSV data below into stock transactions.
Each transaction must have the fields: sku or name, type (IN or OUT), quantity.

CSV:
%s

Return only a valid JSON array with no other explanation.
`, csv)
}
