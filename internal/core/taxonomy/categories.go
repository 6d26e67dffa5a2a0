package taxonomy

// Categories is the closed category vocabulary in display order.
var Categories = []string{
	"Activity Books",
	"Adventure",
	"Animal Stories",
	"Art & Music",
	"Biographies",
	"Environment",
	"Fables",
	"Fairy Tales",
	"Family & Friends",
	"Fantasy",
	"Folk Tales",
	"Health",
	"History",
	"Humour",
	"Life Skills",
	"Mystery",
	"Nature",
	"Poetry",
	"Religion",
	"School",
	"Science & Technology",
	"Social Emotional Learning",
	"Social Issues",
	"Sports",
}

// categoryAliases is ordered. Short, ambiguous keys ("art", "tale") sit at the
// end so longer keys get the first chance at a substring match.
var categoryAliases = []Alias{
	{"activity book", "Activity Books"},
	{"activity", "Activity Books"},
	{"puzzle", "Activity Books"},
	{"colouring", "Activity Books"},
	{"coloring", "Activity Books"},
	{"adventure", "Adventure"},
	{"quest", "Adventure"},
	{"journey", "Adventure"},
	{"animal story", "Animal Stories"},
	{"animal stories", "Animal Stories"},
	{"animal", "Animal Stories"},
	{"wildlife", "Animal Stories"},
	{"pets", "Animal Stories"},
	{"art & music", "Art & Music"},
	{"arts", "Art & Music"},
	{"music", "Art & Music"},
	{"painting", "Art & Music"},
	{"drawing", "Art & Music"},
	{"dance", "Art & Music"},
	{"biography", "Biographies"},
	{"biographies", "Biographies"},
	{"memoir", "Biographies"},
	{"environment", "Environment"},
	{"climate", "Environment"},
	{"ecology", "Environment"},
	{"pollution", "Environment"},
	{"fable", "Fables"},
	{"fairy tale", "Fairy Tales"},
	{"fairytale", "Fairy Tales"},
	{"family", "Family & Friends"},
	{"friendship", "Family & Friends"},
	{"friends", "Family & Friends"},
	{"fantasy", "Fantasy"},
	{"magic", "Fantasy"},
	{"folk tale", "Folk Tales"},
	{"folktale", "Folk Tales"},
	{"folklore", "Folk Tales"},
	{"myth", "Folk Tales"},
	{"legend", "Folk Tales"},
	{"health", "Health"},
	{"hygiene", "Health"},
	{"nutrition", "Health"},
	{"history", "History"},
	{"historical", "History"},
	{"humor", "Humour"},
	{"humour", "Humour"},
	{"funny", "Humour"},
	{"silly", "Humour"},
	{"joke", "Humour"},
	{"life skill", "Life Skills"},
	{"skill", "Life Skills"},
	{"mystery", "Mystery"},
	{"detective", "Mystery"},
	{"nature", "Nature"},
	{"plants", "Nature"},
	{"poetry", "Poetry"},
	{"poem", "Poetry"},
	{"rhyme", "Poetry"},
	{"religion", "Religion"},
	{"spiritual", "Religion"},
	{"school", "School"},
	{"classroom", "School"},
	{"science", "Science & Technology"},
	{"technology", "Science & Technology"},
	{"stem", "Science & Technology"},
	{"math", "Science & Technology"},
	{"social emotional", "Social Emotional Learning"},
	{"social-emotional", "Social Emotional Learning"},
	{"emotion", "Social Emotional Learning"},
	{"feelings", "Social Emotional Learning"},
	{"social issue", "Social Issues"},
	{"social", "Social Issues"},
	{"gender", "Social Issues"},
	{"diversity", "Social Issues"},
	{"disability", "Social Issues"},
	{"equality", "Social Issues"},
	{"sport", "Sports"},
	{"games", "Sports"},
	{"football", "Sports"},
	{"cricket", "Sports"},
	{"art", "Art & Music"},
	{"tale", "Folk Tales"},
}

var categoryMapper = NewMapper(categoryAliases)

// MapCategory resolves a raw category term to a label in Categories.
func MapCategory(raw string) (string, bool) {
	return categoryMapper.Map(raw)
}
