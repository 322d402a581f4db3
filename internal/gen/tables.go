package gen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ndelvaux/handleforge/internal/domain"
)

// LeetRule maps a single lowercase letter to its digit replacement.
// Rule order is significant: combined variants apply rules in table order.
type LeetRule struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Tables holds the static generation data: per-style prefixes/suffixes,
// per-interest keyword lists and the leet substitution rules.
// Loaded once at startup, never mutated afterwards.
type Tables struct {
	Prefixes  map[domain.Style][]string `yaml:"prefixes"`
	Suffixes  map[domain.Style][]string `yaml:"suffixes"`
	Interests map[string][]string       `yaml:"interests"`
	LeetRules []LeetRule                `yaml:"leet_rules"`
}

// LoadTables returns the built-in tables, or the contents of path when it is
// non-empty. An override file replaces the tables wholesale, it is not merged.
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return defaultTables(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables file: %w", err)
	}

	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse tables file %s: %w", path, err)
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("invalid tables file %s: %w", path, err)
	}
	return &t, nil
}

func (t *Tables) validate() error {
	if len(t.Prefixes) == 0 || len(t.Suffixes) == 0 {
		return fmt.Errorf("prefixes and suffixes must not be empty")
	}
	if len(t.Interests) == 0 {
		return fmt.Errorf("interests must not be empty")
	}
	for _, rule := range t.LeetRules {
		if len(rule.From) != 1 || rule.From[0] < 'a' || rule.From[0] > 'z' {
			return fmt.Errorf("leet rule source must be a single lowercase letter, got %q", rule.From)
		}
		if rule.To == "" {
			return fmt.Errorf("leet rule for %q has an empty replacement", rule.From)
		}
	}
	return nil
}

func defaultTables() *Tables {
	return &Tables{
		Prefixes: map[domain.Style][]string{
			domain.StyleCool: {
				"x", "dark", "shadow", "neo", "cyber", "black", "night", "storm", "ice", "fire",
				"steel", "blade", "void", "lunar", "solar", "alpha", "beta", "ultra", "mega", "super",
				"hyper", "prime", "elite", "pro", "max", "ace", "zen", "flash", "ghost", "phantom",
			},
			domain.StyleCute: {
				"mini", "sweet", "lovely", "soft", "kawaii", "tiny", "baby", "little", "fluffy", "bunny",
				"kitty", "puppy", "honey", "sugar", "candy", "cherry", "peach", "berry", "fairy", "angel",
				"star", "moon", "sun", "flower", "rose", "lily", "daisy", "pearl", "gem", "crystal",
			},
			domain.StyleHacker: {
				"h4ck", "anon", "ghost", "zero", "null", "void", "root", "admin", "sys", "dev",
				"bin", "hex", "code", "byte", "bit", "data", "net", "web", "cyber", "matrix",
				"shell", "term", "unix", "linux", "node", "core", "stack", "loop", "func", "var",
			},
			domain.StyleMinimal: {
				"", "pure", "clean", "simple", "zen", "bare", "raw", "plain", "clear", "basic",
				"just", "only", "mere", "solo", "lone", "one", "real", "true", "core", "base",
				"main", "key", "top", "new", "old", "raw", "dry", "cold", "warm", "soft",
			},
			domain.StyleAesthetic: {
				"aesthetic", "vibe", "mood", "aura", "ethereal", "dreamy", "cosmic", "mystic", "serene", "bliss",
				"harmony", "grace", "elegance", "beauty", "divine", "pure", "sacred", "golden", "silver", "pearl",
				"velvet", "silk", "satin", "crystal", "diamond", "ruby", "sapphire", "emerald", "opal", "jade",
			},
		},
		Suffixes: map[domain.Style][]string{
			domain.StyleCool: {
				"x", "xx", "xo", "z", "zz", "pro", "max", "ultra", "mega", "super",
				"alpha", "beta", "prime", "elite", "ace", "king", "lord", "master", "boss", "chief",
				"hero", "legend", "myth", "storm", "blade", "fire", "ice", "steel", "shadow", "ghost",
			},
			domain.StyleCute: {
				"chan", "kun", "san", "sama", "baby", "honey", "sugar", "candy", "sweet", "love",
				"heart", "star", "moon", "sun", "flower", "rose", "lily", "berry", "peach", "cherry",
				"bunny", "kitty", "puppy", "angel", "fairy", "gem", "pearl", "crystal", "diamond", "sparkle",
			},
			domain.StyleHacker: {
				"404", "403", "200", "500", "0x", "exe", "bin", "dev", "sys", "root",
				"admin", "user", "guest", "anon", "null", "void", "zero", "one", "bit", "byte",
				"kb", "mb", "gb", "tb", "hex", "dec", "oct", "bin", "log", "tmp",
			},
			domain.StyleMinimal: {
				"", "one", "two", "new", "old", "now", "yes", "no", "ok", "go",
				"do", "be", "me", "we", "it", "is", "as", "at", "to", "of",
				"on", "in", "by", "up", "so", "my", "or", "an", "if", "but",
			},
			domain.StyleAesthetic: {
				"vibes", "mood", "aura", "dream", "bliss", "grace", "beauty", "divine", "sacred", "golden",
				"silver", "pearl", "velvet", "silk", "satin", "crystal", "diamond", "ruby", "sapphire", "emerald",
				"opal", "jade", "cosmic", "mystic", "serene", "ethereal", "dreamy", "harmony", "elegance", "pure",
			},
		},
		Interests: map[string][]string{
			"music": {
				"beats", "sound", "melody", "tune", "vibe", "rhythm", "bass", "drop", "mix", "track",
				"song", "note", "chord", "scale", "tempo", "audio", "vocal", "instrument", "studio", "record",
				"play", "listen", "hear", "sing", "dance", "dj", "producer", "artist", "band", "concert",
			},
			"anime": {
				"chan", "kun", "senpai", "otaku", "weeb", "manga", "kawaii", "desu", "sama", "san",
				"neko", "baka", "tsundere", "yandere", "waifu", "husbando", "onii", "imouto", "sensei", "kohai",
				"moe", "chibi", "cosplay", "doki", "nya", "owo", "uwu", "sugoi", "yamete", "notice",
			},
			"tech": {
				"dev", "code", "hack", "byte", "tech", "data", "web", "app", "api", "bot",
				"ai", "ml", "dl", "neural", "algo", "logic", "binary", "digital", "cyber", "virtual",
				"cloud", "server", "client", "network", "protocol", "framework", "library", "database", "query", "json",
			},
			"gaming": {
				"gamer", "play", "win", "pro", "gg", "pwn", "noob", "skilled", "boss", "raid",
				"quest", "level", "xp", "hp", "mp", "damage", "crit", "buff", "nerf", "spawn",
				"respawn", "frag", "kill", "death", "score", "rank", "tier", "league", "tournament", "esports",
			},
			"art": {
				"draw", "paint", "create", "art", "design", "sketch", "canvas", "brush", "color", "palette",
				"pixel", "vector", "raster", "layer", "filter", "effect", "texture", "pattern", "gradient", "shadow",
				"light", "dark", "bright", "vivid", "pastel", "neon", "matte", "gloss", "smooth", "rough",
			},
			"sport": {
				"fit", "strong", "fast", "win", "champion", "athlete", "train", "workout", "gym", "muscle",
				"power", "speed", "endurance", "stamina", "energy", "force", "strength", "agility", "balance", "flex",
				"cardio", "protein", "gains", "reps", "sets", "weight", "lift", "run", "jump", "push",
			},
			"photography": {
				"photo", "pic", "shot", "snap", "camera", "lens", "focus", "exposure", "light", "shadow",
				"frame", "capture", "moment", "memory", "vision", "view", "scene", "portrait", "landscape", "macro",
				"zoom", "angle", "perspective", "composition", "filter", "edit", "raw", "jpeg", "pixel", "resolution",
			},
			"cooking": {
				"cook", "chef", "recipe", "taste", "flavor", "spice", "herb", "salt", "pepper", "sugar",
				"sweet", "sour", "bitter", "umami", "fresh", "organic", "natural", "healthy", "delicious", "yummy",
				"kitchen", "oven", "pan", "knife", "plate", "bowl", "fork", "spoon", "dish", "meal",
			},
			"travel": {
				"travel", "journey", "trip", "adventure", "explore", "discover", "wander", "roam", "voyage", "tour",
				"destination", "place", "location", "city", "country", "world", "global", "international", "local", "culture",
				"experience", "memory", "story", "photo", "souvenir", "map", "guide", "passport", "visa", "flight",
			},
		},
		LeetRules: []LeetRule{
			{From: "o", To: "0"},
			{From: "i", To: "1"},
			{From: "l", To: "1"},
			{From: "z", To: "2"},
			{From: "b", To: "13"},
			{From: "a", To: "4"},
			{From: "s", To: "5"},
			{From: "g", To: "6"},
			{From: "t", To: "7"},
			{From: "q", To: "9"},
		},
	}
}
