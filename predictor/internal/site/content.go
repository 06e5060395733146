package site

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml templates/*.html
var assets embed.FS

type Link struct {
	Path  string `yaml:"path"`
	Label string `yaml:"label"`
}

type Titled struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

type Testimonial struct {
	Quote  string `yaml:"quote"`
	Author string `yaml:"author"`
	Role   string `yaml:"role"`
}

// Content is the static copy of every page.
type Content struct {
	Brand struct {
		Name    string `yaml:"name"`
		Suffix  string `yaml:"suffix"`
		Tagline string `yaml:"tagline"`
	} `yaml:"brand"`

	Nav []Link `yaml:"nav"`

	Home struct {
		Badge             string        `yaml:"badge"`
		Headline          string        `yaml:"headline"`
		HeadlineAccent    string        `yaml:"headline_accent"`
		Intro             string        `yaml:"intro"`
		TestimonialsTitle string        `yaml:"testimonials_title"`
		TestimonialsIntro string        `yaml:"testimonials_intro"`
		Testimonials      []Testimonial `yaml:"testimonials"`
		CTA               Titled        `yaml:"cta"`
	} `yaml:"home"`

	About struct {
		Title       string   `yaml:"title"`
		Intro       string   `yaml:"intro"`
		Story       []string `yaml:"story"`
		ValuesTitle string   `yaml:"values_title"`
		ValuesIntro string   `yaml:"values_intro"`
		Values      []Titled `yaml:"values"`
		Technology  []Titled `yaml:"technology"`
		CTA         Titled   `yaml:"cta"`
	} `yaml:"about"`

	Predict struct {
		Title       string   `yaml:"title"`
		Empty       string   `yaml:"empty"`
		InfoTitle   string   `yaml:"info_title"`
		InfoIntro   string   `yaml:"info_intro"`
		RiskFactors []string `yaml:"risk_factors"`
		HowItWorks  []string `yaml:"how_it_works"`
	} `yaml:"predict"`

	Contact struct {
		Title      string   `yaml:"title"`
		Intro      string   `yaml:"intro"`
		GetInTouch string   `yaml:"get_in_touch"`
		Email      []string `yaml:"email"`
		Phone      []string `yaml:"phone"`
		Location   []string `yaml:"location"`
		Hours      []string `yaml:"hours"`
		DemoTitle  string   `yaml:"demo_title"`
		DemoText   string   `yaml:"demo_text"`
	} `yaml:"contact"`

	Footer struct {
		QuickLinks []Link   `yaml:"quick_links"`
		Resources  []string `yaml:"resources"`
		Email      string   `yaml:"email"`
		Phone      string   `yaml:"phone"`
		Address    string   `yaml:"address"`
	} `yaml:"footer"`
}

// LoadContent parses the embedded content.yaml.
func LoadContent() (*Content, error) {
	raw, err := assets.ReadFile("content.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read site content: %w", err)
	}

	var c Content
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse site content: %w", err)
	}
	if len(c.Nav) == 0 {
		return nil, fmt.Errorf("site content has no navigation entries")
	}
	return &c, nil
}
