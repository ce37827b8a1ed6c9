// Package catalog loads the static product lists used to build assistant
// system prompts.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/capitalize-ai/assistant-chat/internal/model"
)

// Product is one entry of a product list file. Rate is set for bank
// products and Price for grocery products; both may be strings or numbers.
type Product struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Rate        any    `json:"rate,omitempty"`
	Price       any    `json:"price,omitempty"`
	Type        string `json:"type"`
	Additional  string `json:"additional"`
}

// Kind describes how a product list is turned into an assistant.
type Kind struct {
	AssistantID   string
	AssistantName string
	// Domain is the lowercase noun used in the prompt, e.g. "bank".
	Domain string
	// AttributeLabel names the domain-specific field, e.g. "Rate".
	AttributeLabel string
	// Attribute extracts the domain-specific value from a product.
	Attribute func(p Product) any
}

// Bank is the banking assistant catalog kind.
var Bank = Kind{
	AssistantID:    "asst_1",
	AssistantName:  "Banking Assistant",
	Domain:         "bank",
	AttributeLabel: "Rate",
	Attribute:      func(p Product) any { return p.Rate },
}

// Grocery is the grocery assistant catalog kind.
var Grocery = Kind{
	AssistantID:    "asst_2",
	AssistantName:  "Grocery Assistant",
	Domain:         "grocery",
	AttributeLabel: "Price",
	Attribute:      func(p Product) any { return p.Price },
}

// Source pairs a catalog kind with the file it is read from.
type Source struct {
	Kind Kind
	Path string
}

// Load reads a product list file.
func Load(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read product list: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse product list %s: %w", path, err)
	}

	return products, nil
}

// RenderPrompt builds the system prompt for a catalog kind.
func RenderPrompt(kind Kind, products []Product) string {
	var b strings.Builder

	b.WriteString("\n")
	fmt.Fprintf(&b, "You are an assistant knowledgeable about %s products. Provide detailed information when asked.\n", kind.Domain)
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s Products:\n", capitalize(kind.Domain))

	lines := make([]string, len(products))
	for i, p := range products {
		lines[i] = fmt.Sprintf("- %s: %s. %s: %s, Type: %s, Additional Info: %s",
			p.Name, p.Description, kind.AttributeLabel, formatValue(kind.Attribute(p)), p.Type, p.Additional)
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")

	return b.String()
}

// BuildAssistants loads every source and renders one assistant per source,
// preserving source order.
func BuildAssistants(sources []Source) ([]model.Assistant, error) {
	assistants := make([]model.Assistant, 0, len(sources))
	for _, src := range sources {
		products, err := Load(src.Path)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", src.Kind.Domain, err)
		}
		assistants = append(assistants, model.Assistant{
			ID:           src.Kind.AssistantID,
			Name:         src.Kind.AssistantName,
			SystemPrompt: RenderPrompt(src.Kind, products),
		})
	}
	return assistants, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
