package taxonomy

// Levels is the closed reading-level vocabulary in display order.
var Levels = []string{
	"Read Aloud",
	"Level 1",
	"Level 2",
	"Level 3",
	"Level 4",
}

var levelAliases = []Alias{
	{"read aloud", "Read Aloud"},
	{"read-aloud", "Read Aloud"},
	{"pre-reader", "Read Aloud"},
	{"level 1", "Level 1"},
	{"level-1", "Level 1"},
	{"level one", "Level 1"},
	{"beginner", "Level 1"},
	{"beginning reader", "Level 1"},
	{"easy words", "Level 1"},
	{"level 2", "Level 2"},
	{"level-2", "Level 2"},
	{"level two", "Level 2"},
	{"learning to read", "Level 2"},
	{"early reader", "Level 2"},
	{"level 3", "Level 3"},
	{"level-3", "Level 3"},
	{"level three", "Level 3"},
	{"intermediate", "Level 3"},
	{"reading independently", "Level 3"},
	{"level 4", "Level 4"},
	{"level-4", "Level 4"},
	{"level four", "Level 4"},
	{"advanced", "Level 4"},
	{"fluent", "Level 4"},
	{"reading proficiently", "Level 4"},
}

var levelMapper = NewMapper(levelAliases)

// MapLevel resolves a raw reading-level label to a label in Levels.
func MapLevel(raw string) (string, bool) {
	return levelMapper.Map(raw)
}
