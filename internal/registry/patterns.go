package registry

import (
	"regexp"

	"github.com/mclog/mclog-go/pkg/mclog/record"
)

// Server log lines start with "[15:04:05]" or, in archived files,
// "[2006-01-02 15:04:05]". The date group feeds date resolution; lines
// without it fall back to the file's source day.
const (
	// timePrefix is the extracting form with named groups.
	timePrefix = `^\[(?:(?P<date>\d{4}-\d{2}-\d{2})[ T])?(?P<time>\d{2}:\d{2}:\d{2})\]\s+`

	// testPrefix is the group-free form used in testers.
	testPrefix = `^\[(?:\d{4}-\d{2}-\d{2}[ T])?\d{2}:\d{2}:\d{2}\]\s+`

	// coordsExtract captures an optional trailing block position.
	coordsExtract = `(?: at \((?P<x>-?\d+), (?P<y>-?\d+), (?P<z>-?\d+)\))?$`

	// coordsTest is the group-free form. Testers must end with this
	// wherever the extractor ends with coordsExtract, or tester and
	// extractor would disagree on malformed coordinates.
	coordsTest = `(?: at \(-?\d+, -?\d+, -?\d+\))?$`
)

// Builtin returns the fixed event-type catalog in priority order:
// death, item_action, rare_spawn, trade, connection, chat. Chat's
// final variant is a deliberate catch-all and must stay last.
func Builtin() *Registry {
	return New([]*Definition{
		deathDef(),
		itemActionDef(),
		rareSpawnDef(),
		tradeDef(),
		connectionDef(),
		chatDef(),
	})
}

func deathDef() *Definition {
	return &Definition{
		Type: record.Death,
		Variants: []Variant{
			{
				ID:     "death_slain",
				Tester: regexp.MustCompile(testPrefix + `\S+ was slain by \S.*` + coordsTest),
				Extractor: regexp.MustCompile(timePrefix +
					`(?P<player>\S+) was slain by (?P<killer>.+?)` + coordsExtract),
			},
			{
				ID: "death_environment",
				Tester: regexp.MustCompile(testPrefix +
					`\S+ (?:drowned|burned to death|fell from a high place|blew up|starved to death|withered away)` + coordsTest),
				Extractor: regexp.MustCompile(timePrefix +
					`(?P<player>\S+) (?P<cause>drowned|burned to death|fell from a high place|blew up|starved to death|withered away)` + coordsExtract),
			},
		},
		Grouped:      true,
		Continuation: regexp.MustCompile(`^\s+- `),
		ItemPattern: regexp.MustCompile(
			`^\s+- (?:(?P<count>\d+)x (?P<item>.+?)|(?P<xp>\d+) experience)\s*$`),
		PageSize:       50,
		DecorateFields: []string{"player", "killer", "cause"},
		PlayerFields:   []string{"player"},
	}
}

func itemActionDef() *Definition {
	return &Definition{
		Type: record.ItemAction,
		Variants: []Variant{
			{
				ID:     "item_pickup_drop",
				Tester: regexp.MustCompile(testPrefix + `\S+ (?:picked up|dropped) \d+x \S.*` + coordsTest),
				Extractor: regexp.MustCompile(timePrefix +
					`(?P<player>\S+) (?P<action>picked up|dropped) (?P<count>\d+)x (?P<item>.+?)` + coordsExtract),
			},
		},
		DecorateFields: []string{"player", "item"},
		PlayerFields:   []string{"player"},
	}
}

func rareSpawnDef() *Definition {
	return &Definition{
		Type: record.RareSpawn,
		Variants: []Variant{
			{
				ID:     "rare_spawn",
				Tester: regexp.MustCompile(testPrefix + `An? \S.* has spawned` + coordsTest),
				Extractor: regexp.MustCompile(timePrefix +
					`An? (?P<mob>.+?) has spawned` + coordsExtract),
			},
		},
		DecorateFields: []string{"mob"},
	}
}

func tradeDef() *Definition {
	return &Definition{
		Type: record.Trade,
		Variants: []Variant{
			{
				ID:     "trade",
				Tester: regexp.MustCompile(testPrefix + `\S+ traded \d+x \S.* to \S+(?: for \d+x \S.*)?$`),
				Extractor: regexp.MustCompile(timePrefix +
					`(?P<player>\S+) traded (?P<count>\d+)x (?P<item>.+?) to (?P<partner>\S+)(?: for (?P<pcount>\d+)x (?P<payment>.+))?$`),
			},
		},
		PageSize:       50,
		DecorateFields: []string{"player", "partner", "item", "payment"},
		PlayerFields:   []string{"player", "partner"},
	}
}

func connectionDef() *Definition {
	return &Definition{
		Type: record.Connection,
		Variants: []Variant{
			{
				ID:     "connection_join",
				Tester: regexp.MustCompile(testPrefix + `\S+ logged in(?: from \S+)?\s*$`),
				Extractor: regexp.MustCompile(timePrefix +
					`(?P<player>\S+) logged in(?: from (?P<address>\S+))?\s*$`),
			},
			{
				ID:     "connection_leave",
				Tester: regexp.MustCompile(testPrefix + `\S+ left the game\s*$`),
				Extractor: regexp.MustCompile(timePrefix +
					`(?P<player>\S+) left the game\s*$`),
			},
		},
		DecorateFields: []string{"player"},
		PlayerFields:   []string{"player"},
	}
}

func chatDef() *Definition {
	return &Definition{
		Type: record.Chat,
		Variants: []Variant{
			{
				ID:     "chat_message",
				Tester: regexp.MustCompile(testPrefix + `<[^>]+> `),
				Extractor: regexp.MustCompile(timePrefix +
					`<(?P<player>[^>]+)> (?P<message>.*)$`),
			},
			{
				ID:     "chat_server",
				Tester: regexp.MustCompile(testPrefix + `\[Server\] `),
				Extractor: regexp.MustCompile(timePrefix +
					`\[Server\] (?P<message>.*)$`),
			},
			{
				// Catch-all: any line with a non-space character.
				// The extractor's prefix is optional so it accepts a
				// strict superset of the tester.
				ID:     "chat_raw",
				Tester: regexp.MustCompile(`\S`),
				Extractor: regexp.MustCompile(
					`^(?:\[(?:(?P<date>\d{4}-\d{2}-\d{2})[ T])?(?P<time>\d{2}:\d{2}:\d{2})\]\s*)?(?P<message>.*)$`),
			},
		},
		DecorateFields: []string{"player", "message"},
		PlayerFields:   []string{"player"},
	}
}
