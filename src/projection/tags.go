package projection

import "sort"

// -----------------------------------------------------------------------------
// Skill Tags
// -----------------------------------------------------------------------------

// skillTags maps a skill tag to the item-name keywords it matches. An item
// passes the tag filter when its lower-cased name contains at least one
// keyword. The table is fixed; unknown tags disable the filter.
var skillTags = map[string][]string{
	"sailing": {
		"log", "oak log", "teak log",
		"plank", "oak plank", "teak plank",
		"plank sack", "log basket", "wood beam", "ship hull", "ship deck", "ship cabin",
		"bar", "bronze bar", "iron bar", "steel bar", "mithril bar", "adamantite bar", "rune bar",
		"nail", "bronze nail", "iron nail", "steel nail", "mithril nail", "adamant nail", "rune nail", "metal framework",
		"rope", "swamp tar", "tar", "swamp paste", "paste", "sail", "sail cloth", "rigging kit", "fastener", "metal bolt", "bolt",
		"cannonball", "cannon", "ship cannon", "repair kit", "repair tool", "ammo crate", "ammo box",
		"cargo hold", "hold upgrade", "storage crate", "supply crate", "supply sack", "ship mast", "crow’s nest", "crows nest",
		"anchor", "ship wheel", "flax", "canvas", "sea chart", "sea map", "spyglass",
		"crew uniform", "deck planking", "marine paint", "marine timber",
	},
	"herblore": {
		"herb", "grimy", "clean", "unfinished", "unf", "vial", "potion", "guam", "marrentill",
		"tarromin", "harralander", "ranarr", "irit", "avantoe", "kwuarm", "snapdragon", "cadantine",
		"lantadyme", "dwarf weed", "torstol", "limpwurt", "red spiders'", "white berries", "crushed",
		"toadflax", "unicorn horn", "snape grass",
	},
	"fletching": {
		"log", "arrow shaft", "arrow", "arrowtips", "headless", "shortbow", "longbow", "crossbow",
		"crossbow string", "bolts", "feather", "dart", "javelin", "ogre arrow", "broad arrow",
	},
	"cooking": {
		"raw", "cooked", "karambwan", "lobster", "shark", "anglerfish", "trout", "salmon", "tuna",
		"monkfish", "swordfish", "cake", "pie", "potato", "chocolate", "shrimp",
	},
	"smithing": {
		"bar", "bronze", "iron", "steel", "mithril", "adamant", "rune", "nail", "knife", "dart tip",
		"arrowtips", "sword", "scimitar", "battleaxe", "mace", "platebody", "platelegs", "full helm",
	},
	"mining": {
		"ore", "uncut", "pickaxe", "coal", "iron ore", "copper ore", "tin ore", "adamantite",
		"rune ore", "pay-dirt",
	},
	"fishing": {
		"raw", "fish", "lobster", "shark", "anglerfish", "tuna", "salmon", "trout", "karambwan",
		"fishing bait", "feather", "harpoon",
	},
	"woodcutting": {
		"logs", "oak logs", "willow logs", "maple logs", "yew logs", "magic logs", "axe", "adze",
	},
	"runecrafting": {
		"rune essence", "pure essence", "talisman", "tiara", "rune", "binding necklace", "rune pouch",
	},
	"crafting": {
		"bowstring", "flax", "leather", "needle", "thread", "gem", "uncut", "cut", "amulet",
		"necklace", "ring", "bracelet", "glass",
	},
	"farming": {
		"seed", "compost", "supercompost", "ultracompost", "watering can", "rake", "spade", "herb",
		"plant cure", "potato", "tomato", "limpwurt", "white lily",
	},
}

// SkillNames returns the available skill tags in alphabetical order, for the
// config endpoint and frontend selectors.
func SkillNames() []string {
	names := make([]string, 0, len(skillTags))
	for name := range skillTags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
