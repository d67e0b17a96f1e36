package tooltip

import "regexp"

// delimiter separates the sections of a copied item description.
const delimiter = "--------"

// requirementsHeading opens the requirements section.
const requirementsHeading = "Requirements:"

// Compiled regex patterns for the structured header sections.
var (
	// Matches: "Rarity: Rare"
	// Captures: (1) rarity word
	rarityPattern = regexp.MustCompile(`^Rarity: (\w+)`)

	// Matches decorative tags embedded in item names: "<<set:MS>>"
	nameTagPattern = regexp.MustCompile(`<<set:\w+>>`)

	// Matches: "Physical Damage: 10-20", "Level: 40"
	// Captures: (1) key, (2) value
	keyValuePattern = regexp.MustCompile(`^([^:]+): (.+)$`)

	// Matches: "Sockets: R-G-B W", trailing text after the sockets allowed
	// Captures: (1) socket colours and links
	socketsPattern = regexp.MustCompile(`^Sockets: ([RGBWA -]+)`)

	// Matches: "Item Level: 75", "Itemlevel: 75"
	// Captures: (1) level
	itemLevelPattern = regexp.MustCompile(`^(?:Itemlevel|Item Level): (\d+)`)
)
