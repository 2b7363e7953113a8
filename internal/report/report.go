// Package report renders selections for people and programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/eugenenazirov/knapsack/internal/knapsack"
)

// Format names an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Formats lists the accepted format names, in help-text order.
var Formats = []string{string(FormatText), string(FormatJSON)}

// Write renders sel to w in the requested format.
func Write(w io.Writer, format Format, sel knapsack.Selection) error {
	switch format {
	case FormatText, "":
		return Text(w, sel)
	case FormatJSON:
		return JSON(w, sel)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// Text writes the human readable summary of sel.
func Text(w io.Writer, sel knapsack.Selection) error {
	var b strings.Builder
	b.WriteString("--- KNAPSACK ---\n")
	fmt.Fprintf(&b, "> Value: %s\n", formatNumber(sel.TotalValue()))
	fmt.Fprintf(&b, "> Weight: %s\n", formatNumber(sel.TotalWeight()))
	b.WriteString("> Contents: \n")
	for _, item := range sel.Items() {
		fmt.Fprintf(&b, "Item(ID: %d, Weight: %s, Value: %s)\n",
			item.ID, formatNumber(item.Weight), formatNumber(item.Value))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// JSON writes sel as a single JSON document followed by a newline.
func JSON(w io.Writer, sel knapsack.Selection) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewView(sel))
}

// View is the serialisable form of a selection.
type View struct {
	Items       []knapsack.Item `json:"items"`
	TotalWeight float64         `json:"totalWeight"`
	TotalValue  float64         `json:"totalValue"`
	Capacity    float64         `json:"capacity"`
}

// NewView snapshots sel for encoding.
func NewView(sel knapsack.Selection) View {
	items := sel.Items()
	if items == nil {
		items = []knapsack.Item{}
	}
	return View{
		Items:       items,
		TotalWeight: sel.TotalWeight(),
		TotalValue:  sel.TotalValue(),
		Capacity:    sel.Capacity(),
	}
}

// formatNumber prints the shortest representation, so 60 renders as "60"
// and 20.5 as "20.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
