package shrinetips

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitItems(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "rarity after blank line",
			text: "Rarity: Rare\nA\nB\n\nRarity: Magic\nC\nD\n",
			want: []string{"Rarity: Rare\nA\nB", "Rarity: Magic\nC\nD"},
		},
		{
			name: "rarity starts next item",
			text: "Rarity: Rare\nA\nB\nRarity: Magic\nC\nD",
			want: []string{"Rarity: Rare\nA\nB", "Rarity: Magic\nC\nD"},
		},
		{
			name: "crlf and repeated blanks",
			text: "\r\n\r\nRarity: Rare\r\nA\r\n\r\n\r\n",
			want: []string{"Rarity: Rare\nA"},
		},
		{
			name: "blank line inside item",
			text: "Rarity: Rare\nStorm Loop\n\nCoral Ring\n--------\n+5 to Life\n",
			want: []string{"Rarity: Rare\nStorm Loop\nCoral Ring\n--------\n+5 to Life"},
		},
		{
			name: "text before first rarity",
			text: "some notes\n\nmore notes\nRarity: Normal\nIron Ring\n",
			want: []string{"some notes\nmore notes", "Rarity: Normal\nIron Ring"},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitItems(tt.text))
		})
	}
}

func TestSplitItems_BlankLineKeepsBase(t *testing.T) {
	items := SplitItems("Rarity: Rare\nStorm Loop\n\nCoral Ring\n--------\n+5 to Life\n")
	if assert.Len(t, items, 1) {
		tip, err := Parse(items[0])
		if assert.NoError(t, err) {
			assert.Equal(t, "Storm Loop", tip.Name)
			assert.Equal(t, "Coral Ring", tip.Base)
		}
	}
}
