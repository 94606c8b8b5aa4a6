// Package pattern loads user-defined event variants from YAML files.
// A variant file extends an existing event type with an extra log
// format: a tester pattern deciding membership and an extractor
// pattern with named capture groups.
package pattern

// File represents the structure of a YAML variant file.
//
// Example:
//
//	version: 1
//	variants:
//	  - id: chat_whisper
//	    event_type: chat
//	    tester: '^\[\d{2}:\d{2}:\d{2}\] \S+ whispers to \S+: '
//	    extractor: '^\[(?P<time>\d{2}:\d{2}:\d{2})\] (?P<player>\S+) whispers to (?P<target>\S+): (?P<message>.*)$'
type File struct {
	// Version is the file format version. Currently only version 1 is
	// supported.
	Version int `yaml:"version"`

	// Variants is the list of variant definitions.
	Variants []Variant `yaml:"variants"`
}

// Variant is a single user-defined log format.
type Variant struct {
	// ID is a unique identifier for this variant within the file.
	ID string `yaml:"id"`

	// EventType names the existing event type this variant extends
	// (death, item_action, rare_spawn, trade, connection, chat).
	EventType string `yaml:"event_type"`

	// Tester is the membership-check pattern. Every line it accepts
	// must also be accepted by Extractor, or those lines are dropped
	// from output.
	Tester string `yaml:"tester"`

	// Extractor is the extraction pattern. Named capture groups
	// (?P<name>...) become the structured record's fields; a "date"
	// group participates in date resolution.
	Extractor string `yaml:"extractor"`
}
