package dialogue

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var catalogFS embed.FS

// ErrCatalogInvalid is wrapped by every catalog loading failure
var ErrCatalogInvalid = errors.New("invalid keyword catalog")

// TopicID identifies a topic of the active catalog
type TopicID string

// Topics of the scitech catalog, in declaration order
const (
	TopicAI         TopicID = "ia"
	TopicSpace      TopicID = "espacio"
	TopicComputing  TopicID = "computacion"
	TopicMedicine   TopicID = "medicina"
	TopicEnergy     TopicID = "energia"
	TopicBlockchain TopicID = "blockchain"
)

// DefaultCatalog is the catalog used when none is configured
const DefaultCatalog = "scitech"

// Section is a keyword list with a fixed reply
type Section struct {
	Keywords []string `yaml:"keywords"`
	Reply    string   `yaml:"reply"`

	compiled Keywords
}

// Branch is one entry of a secondary cascade
type Branch = Section

// TopicSection is a section whose reply can reference the last topic
type TopicSection struct {
	Keywords       []string `yaml:"keywords"`
	Reply          string   `yaml:"reply"`
	ReplyWithTopic string   `yaml:"reply_with_topic"`

	compiled Keywords
}

type GreetingSection struct {
	Keywords   []string `yaml:"keywords"`
	Reply      string   `yaml:"reply"`
	NotGreeted string   `yaml:"not_greeted"`

	compiled Keywords
}

type MoodCheckSection struct {
	Positive      []string `yaml:"positive"`
	Negative      []string `yaml:"negative"`
	Neutral       []string `yaml:"neutral"`
	PositiveReply string   `yaml:"positive_reply"`
	NegativeReply string   `yaml:"negative_reply"`
	NeutralReply  string   `yaml:"neutral_reply"`
	Retry         string   `yaml:"retry"`

	positive, negative, neutral Keywords
}

type FarewellSection struct {
	Keywords        []string `yaml:"keywords"`
	Reply           string   `yaml:"reply"`
	ReplyWithTopics string   `yaml:"reply_with_topics"`

	compiled Keywords
}

// Topic is one entry of the topic table. Branches form the secondary cascade
// evaluated once the topic matched; Default answers when no branch matches.
type Topic struct {
	ID       TopicID  `yaml:"id"`
	Name     string   `yaml:"name"`
	Emoji    string   `yaml:"emoji"`
	Keywords []string `yaml:"keywords"`
	Branches []Branch `yaml:"branches"`
	Default  string   `yaml:"default"`

	compiled Keywords
}

// Label returns the emoji-decorated topic name
func (t *Topic) Label() string {
	if t.Emoji == "" {
		return t.Name
	}
	return t.Emoji + " " + t.Name
}

type OffDomainSection struct {
	Areas   []Branch `yaml:"areas"`
	Default string   `yaml:"default"`
}

// FallbackSection holds the token-count tiers of the last rule
type FallbackSection struct {
	ShortMax        int    `yaml:"short_max"`
	MediumMax       int    `yaml:"medium_max"`
	Short           string `yaml:"short"`
	ShortWithTopic  string `yaml:"short_with_topic"`
	Medium          string `yaml:"medium"`
	MediumWithTopic string `yaml:"medium_with_topic"`
	Long            string `yaml:"long"`
	LongWithTopic   string `yaml:"long_with_topic"`
}

// Catalog is the static vocabulary and reply set of one bot build
type Catalog struct {
	ID           string           `yaml:"id"`
	Name         string           `yaml:"name"`
	Version      string           `yaml:"version"`
	AskMood      bool             `yaml:"ask_mood"`
	Greeting     GreetingSection  `yaml:"greeting"`
	MoodCheck    MoodCheckSection `yaml:"mood_check"`
	Farewell     FarewellSection  `yaml:"farewell"`
	PositiveMood Section          `yaml:"positive_mood"`
	NegativeMood Section          `yaml:"negative_mood"`
	Gratitude    TopicSection     `yaml:"gratitude"`
	Identity     Section          `yaml:"identity"`
	Help         Section          `yaml:"help"`
	Topics       []Topic          `yaml:"topics"`
	Digest       Section          `yaml:"digest"`
	OffDomain    OffDomainSection `yaml:"off_domain"`
	Fallback     FallbackSection  `yaml:"fallback"`

	offDomain Keywords
	byID      map[TopicID]*Topic
}

// AvailableCatalogs lists the embedded catalog names
func AvailableCatalogs() []string {
	entries, err := catalogFS.ReadDir("catalogs")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// LoadCatalog loads and validates an embedded catalog by name
func LoadCatalog(name string) (*Catalog, error) {
	if name == "" {
		name = DefaultCatalog
	}
	data, err := catalogFS.ReadFile("catalogs/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: unknown catalog %q", ErrCatalogInvalid, name)
	}
	return ParseCatalog(data)
}

// MustLoadCatalog is LoadCatalog for catalogs known to be valid at build time
func MustLoadCatalog(name string) *Catalog {
	c, err := LoadCatalog(name)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCatalog decodes, validates and compiles a YAML catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogInvalid, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCatalogInvalid, c.ID, err)
	}
	c.compile()
	return &c, nil
}

func (c *Catalog) validate() error {
	if c.ID == "" {
		return errors.New("missing id")
	}
	if len(c.Greeting.Keywords) == 0 || c.Greeting.Reply == "" || c.Greeting.NotGreeted == "" {
		return errors.New("greeting needs keywords, reply and not_greeted")
	}
	if len(c.Farewell.Keywords) == 0 || c.Farewell.Reply == "" {
		return errors.New("farewell needs keywords and reply")
	}
	if c.AskMood {
		m := c.MoodCheck
		if len(m.Positive)+len(m.Negative)+len(m.Neutral) == 0 || m.Retry == "" {
			return errors.New("ask_mood requires mood_check keywords and retry")
		}
	}
	if len(c.Topics) == 0 {
		return errors.New("at least one topic is required")
	}

	seen := make(map[TopicID]bool, len(c.Topics))
	for _, t := range c.Topics {
		if t.ID == "" {
			return errors.New("topic without id")
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate topic %q", t.ID)
		}
		seen[t.ID] = true
		if len(t.Keywords) == 0 || t.Default == "" {
			return fmt.Errorf("topic %q needs keywords and default", t.ID)
		}
	}

	f := c.Fallback
	if f.Short == "" || f.Medium == "" || f.Long == "" {
		return errors.New("fallback needs short, medium and long replies")
	}
	if f.ShortMax <= 0 || f.MediumMax < f.ShortMax {
		return fmt.Errorf("fallback tiers out of order (short_max=%d, medium_max=%d)", f.ShortMax, f.MediumMax)
	}
	return nil
}

func (c *Catalog) compile() {
	c.Greeting.compiled = CompileKeywords(c.Greeting.Keywords)
	c.MoodCheck.positive = CompileKeywords(c.MoodCheck.Positive)
	c.MoodCheck.negative = CompileKeywords(c.MoodCheck.Negative)
	c.MoodCheck.neutral = CompileKeywords(c.MoodCheck.Neutral)
	c.Farewell.compiled = CompileKeywords(c.Farewell.Keywords)
	c.PositiveMood.compiled = CompileKeywords(c.PositiveMood.Keywords)
	c.NegativeMood.compiled = CompileKeywords(c.NegativeMood.Keywords)
	c.Gratitude.compiled = CompileKeywords(c.Gratitude.Keywords)
	c.Identity.compiled = CompileKeywords(c.Identity.Keywords)
	c.Help.compiled = CompileKeywords(c.Help.Keywords)
	c.Digest.compiled = CompileKeywords(c.Digest.Keywords)

	c.byID = make(map[TopicID]*Topic, len(c.Topics))
	for i := range c.Topics {
		t := &c.Topics[i]
		t.compiled = CompileKeywords(t.Keywords)
		for j := range t.Branches {
			t.Branches[j].compiled = CompileKeywords(t.Branches[j].Keywords)
		}
		c.byID[t.ID] = t
	}

	var all []string
	for i := range c.OffDomain.Areas {
		a := &c.OffDomain.Areas[i]
		a.compiled = CompileKeywords(a.Keywords)
		all = append(all, a.Keywords...)
	}
	c.offDomain = CompileKeywords(all)
}

// Topic looks up a topic by id
func (c *Catalog) Topic(id TopicID) (*Topic, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// TopicName returns the display name of id, or the id itself when unknown
func (c *Catalog) TopicName(id TopicID) string {
	if t, ok := c.byID[id]; ok {
		return t.Name
	}
	return string(id)
}

// TopicIDs returns the topic ids in declaration order
func (c *Catalog) TopicIDs() []TopicID {
	ids := make([]TopicID, len(c.Topics))
	for i, t := range c.Topics {
		ids[i] = t.ID
	}
	return ids
}

// Classify returns the first declared topic whose keywords occur in tokens
func (c *Catalog) Classify(tokens []string) (TopicID, bool) {
	for i := range c.Topics {
		if c.Topics[i].compiled.Match(tokens) {
			return c.Topics[i].ID, true
		}
	}
	return "", false
}
