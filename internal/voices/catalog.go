// Package voices lists the neural voices the UI offers.
package voices

import "strings"

type Gender string

const (
	Female Gender = "female"
	Male   Gender = "male"
)

type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Locale   string `json:"locale"`
	Language string `json:"language"`
	Gender   Gender `json:"gender"`
	Label    string `json:"label"`
}

// Catalog is the verified voice list, English first.
var Catalog = []Voice{
	{ID: "en-US-AriaNeural", Name: "Aria", Locale: "en-US", Language: "English", Gender: Female, Label: "Most Natural"},
	{ID: "en-US-JennyNeural", Name: "Jenny", Locale: "en-US", Language: "English", Gender: Female, Label: "Professional"},
	{ID: "en-US-GuyNeural", Name: "Guy", Locale: "en-US", Language: "English", Gender: Male, Label: "Business"},
	{ID: "en-US-AndrewNeural", Name: "Andrew", Locale: "en-US", Language: "English", Gender: Male, Label: "Conversational"},
	{ID: "en-GB-SoniaNeural", Name: "Sonia", Locale: "en-GB", Language: "English", Gender: Female, Label: "British"},
	{ID: "en-GB-RyanNeural", Name: "Ryan", Locale: "en-GB", Language: "English", Gender: Male, Label: "British"},
	{ID: "en-AU-NatashaNeural", Name: "Natasha", Locale: "en-AU", Language: "English", Gender: Female, Label: "Australian"},
	{ID: "en-AU-WilliamNeural", Name: "William", Locale: "en-AU", Language: "English", Gender: Male, Label: "Australian"},
	{ID: "ar-SA-ZariyahNeural", Name: "Zariyah", Locale: "ar-SA", Language: "Arabic", Gender: Female, Label: "Most Natural"},
	{ID: "ar-SA-HamedNeural", Name: "Hamed", Locale: "ar-SA", Language: "Arabic", Gender: Male, Label: "Professional"},
	{ID: "ar-EG-SalmaNeural", Name: "Salma", Locale: "ar-EG", Language: "Arabic", Gender: Female, Label: "Egyptian"},
	{ID: "ar-EG-ShakirNeural", Name: "Shakir", Locale: "ar-EG", Language: "Arabic", Gender: Male, Label: "Egyptian"},
}

// Group is a set of voices sharing a language, in catalog order.
type Group struct {
	Language string
	Voices   []Voice
}

func ByLanguage() []Group {
	var groups []Group
	index := map[string]int{}
	for _, v := range Catalog {
		i, ok := index[v.Language]
		if !ok {
			i = len(groups)
			index[v.Language] = i
			groups = append(groups, Group{Language: v.Language})
		}
		groups[i].Voices = append(groups[i].Voices, v)
	}
	return groups
}

// Lookup finds a catalog voice by id.
func Lookup(id string) (Voice, bool) {
	for _, v := range Catalog {
		if v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}

// DisplayName shortens a voice id for logs: en-US-AriaNeural -> Aria.
// Ids that do not follow the locale-name pattern are returned unchanged.
func DisplayName(id string) string {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) < 3 || parts[2] == "" {
		return id
	}
	name := strings.TrimSuffix(parts[2], "Neural")
	if name == "" {
		return id
	}
	return name
}

// Names returns the short names of all voices in a language.
func Names(language string) []string {
	var names []string
	for _, v := range Catalog {
		if v.Language == language {
			names = append(names, v.Name)
		}
	}
	return names
}
