package catalog

// Banner is the landing page hero copy.
type Banner struct {
	Badge    string `json:"badge" yaml:"badge"`
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`
	Lead     string `json:"lead" yaml:"lead"`
}

// AttributeLabel is the display label of an attribute key.
type AttributeLabel struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// Character is a featured character card. Featured cards are display only and
// never enter the arena.
type Character struct {
	Name        string         `json:"name" yaml:"name"`
	RealName    string         `json:"real_name" yaml:"real_name"`
	Description string         `json:"description" yaml:"description"`
	Color       string         `json:"color" yaml:"color"`
	Stats       map[string]int `json:"stats" yaml:"stats"`
}

// Phase is one entry of the release timeline.
type Phase struct {
	Phase       string   `json:"phase" yaml:"phase"`
	Years       string   `json:"years" yaml:"years"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Color       string   `json:"color" yaml:"color"`
	Movies      []string `json:"movies" yaml:"movies"`
}

// Statistic is a headline figure.
type Statistic struct {
	Icon        string `json:"icon" yaml:"icon"`
	Value       string `json:"value" yaml:"value"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
}

// Link is a footer link.
type Link struct {
	Name string `json:"name" yaml:"name"`
	Href string `json:"href" yaml:"href"`
}

// LinkGroup is a titled column of footer links.
type LinkGroup struct {
	Title string `json:"title" yaml:"title"`
	Links []Link `json:"links" yaml:"links"`
}
