package wcag

// Level is a WCAG conformance level.
type Level string

const (
	LevelA  Level = "A"
	LevelAA Level = "AA"
)

// Criterion describes one WCAG 2.2 success criterion.
type Criterion struct {
	Number string
	Name   string
	Level  Level
}

// Lookup returns the catalog entry for a dotted criterion number.
func Lookup(number string) (Criterion, bool) {
	c, ok := catalog[number]
	return c, ok
}

// Label returns "number name" for known criteria and the bare number
// otherwise. Used by exports and digests for human-readable headings.
func Label(number string) string {
	if number == "" {
		return "uncategorized"
	}
	if c, ok := catalog[number]; ok {
		return c.Number + " " + c.Name
	}
	return number
}

// catalog holds the WCAG 2.2 level A and AA success criteria. AAA criteria
// are omitted; audits in this tool target AA conformance.
var catalog = map[string]Criterion{
	"1.1.1":  {"1.1.1", "Non-text Content", LevelA},
	"1.2.1":  {"1.2.1", "Audio-only and Video-only (Prerecorded)", LevelA},
	"1.2.2":  {"1.2.2", "Captions (Prerecorded)", LevelA},
	"1.2.3":  {"1.2.3", "Audio Description or Media Alternative (Prerecorded)", LevelA},
	"1.2.4":  {"1.2.4", "Captions (Live)", LevelAA},
	"1.2.5":  {"1.2.5", "Audio Description (Prerecorded)", LevelAA},
	"1.3.1":  {"1.3.1", "Info and Relationships", LevelA},
	"1.3.2":  {"1.3.2", "Meaningful Sequence", LevelA},
	"1.3.3":  {"1.3.3", "Sensory Characteristics", LevelA},
	"1.3.4":  {"1.3.4", "Orientation", LevelAA},
	"1.3.5":  {"1.3.5", "Identify Input Purpose", LevelAA},
	"1.4.1":  {"1.4.1", "Use of Color", LevelA},
	"1.4.2":  {"1.4.2", "Audio Control", LevelA},
	"1.4.3":  {"1.4.3", "Contrast (Minimum)", LevelAA},
	"1.4.4":  {"1.4.4", "Resize Text", LevelAA},
	"1.4.5":  {"1.4.5", "Images of Text", LevelAA},
	"1.4.10": {"1.4.10", "Reflow", LevelAA},
	"1.4.11": {"1.4.11", "Non-text Contrast", LevelAA},
	"1.4.12": {"1.4.12", "Text Spacing", LevelAA},
	"1.4.13": {"1.4.13", "Content on Hover or Focus", LevelAA},
	"2.1.1":  {"2.1.1", "Keyboard", LevelA},
	"2.1.2":  {"2.1.2", "No Keyboard Trap", LevelA},
	"2.1.4":  {"2.1.4", "Character Key Shortcuts", LevelA},
	"2.2.1":  {"2.2.1", "Timing Adjustable", LevelA},
	"2.2.2":  {"2.2.2", "Pause, Stop, Hide", LevelA},
	"2.3.1":  {"2.3.1", "Three Flashes or Below Threshold", LevelA},
	"2.4.1":  {"2.4.1", "Bypass Blocks", LevelA},
	"2.4.2":  {"2.4.2", "Page Titled", LevelA},
	"2.4.3":  {"2.4.3", "Focus Order", LevelA},
	"2.4.4":  {"2.4.4", "Link Purpose (In Context)", LevelA},
	"2.4.5":  {"2.4.5", "Multiple Ways", LevelAA},
	"2.4.6":  {"2.4.6", "Headings and Labels", LevelAA},
	"2.4.7":  {"2.4.7", "Focus Visible", LevelAA},
	"2.4.11": {"2.4.11", "Focus Not Obscured (Minimum)", LevelAA},
	"2.5.1":  {"2.5.1", "Pointer Gestures", LevelA},
	"2.5.2":  {"2.5.2", "Pointer Cancellation", LevelA},
	"2.5.3":  {"2.5.3", "Label in Name", LevelA},
	"2.5.4":  {"2.5.4", "Motion Actuation", LevelA},
	"2.5.7":  {"2.5.7", "Dragging Movements", LevelAA},
	"2.5.8":  {"2.5.8", "Target Size (Minimum)", LevelAA},
	"3.1.1":  {"3.1.1", "Language of Page", LevelA},
	"3.1.2":  {"3.1.2", "Language of Parts", LevelAA},
	"3.2.1":  {"3.2.1", "On Focus", LevelA},
	"3.2.2":  {"3.2.2", "On Input", LevelA},
	"3.2.3":  {"3.2.3", "Consistent Navigation", LevelAA},
	"3.2.4":  {"3.2.4", "Consistent Identification", LevelAA},
	"3.2.6":  {"3.2.6", "Consistent Help", LevelA},
	"3.3.1":  {"3.3.1", "Error Identification", LevelA},
	"3.3.2":  {"3.3.2", "Labels or Instructions", LevelA},
	"3.3.3":  {"3.3.3", "Error Suggestion", LevelAA},
	"3.3.4":  {"3.3.4", "Error Prevention (Legal, Financial, Data)", LevelAA},
	"3.3.7":  {"3.3.7", "Redundant Entry", LevelA},
	"3.3.8":  {"3.3.8", "Accessible Authentication (Minimum)", LevelAA},
	"4.1.2":  {"4.1.2", "Name, Role, Value", LevelA},
	"4.1.3":  {"4.1.3", "Status Messages", LevelAA},
}
