package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownTable(t *testing.T) {
	got := markdownTable(
		[]mdColumn{{title: "payment_method"}, {title: "%", right: true}},
		[][]string{{"Card", "60.00"}, {"Wallet ✓", "5.00"}},
	)
	assert.Equal(t,
		"| payment_method |     % |\n"+
			"|:---------------|------:|\n"+
			"| Card           | 60.00 |\n"+
			"| Wallet ✓       |  5.00 |", got)
}

func TestMarkdownTable_NoRows(t *testing.T) {
	assert.Equal(t, "| a |\n|:--|", markdownTable([]mdColumn{{title: "a"}}, nil))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "33.33", Percent(1, 3).StringFixed(2))
	assert.Equal(t, "66.67", Percent(2, 3).StringFixed(2))
	assert.Equal(t, "0.00", Percent(1, 0).StringFixed(2))
}
