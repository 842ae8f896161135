package config

import (
	"MatchTracker/internal/validator"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Rules are the match settings shared by the server and the CLI.
type Rules struct {
	HalfLength        int  `yaml:"half_length"`
	Starters          int  `yaml:"starters"`
	RequireGoalkeeper bool `yaml:"require_goalkeeper"`
	CheckpointSeconds int  `yaml:"checkpoint_seconds"`
	RecentEvents      int  `yaml:"recent_events"`
}

func DefaultRules() Rules {
	return Rules{
		HalfLength:        35,
		Starters:          11,
		RequireGoalkeeper: true,
		CheckpointSeconds: 5,
		RecentEvents:      5,
	}
}

// LoadRules reads a rules file. Keys missing from the file keep their default values and an
// empty path returns the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("failed to read rules file: %w", err)
	}
	if err := yaml.Unmarshal(b, &rules); err != nil {
		return rules, fmt.Errorf("failed to parse rules file: %w", err)
	}

	v := validator.New()
	ValidateRules(v, rules)
	if !v.Valid() {
		return rules, fmt.Errorf("invalid rules file: %v", v.Errors)
	}
	return rules, nil
}

func ValidateRules(v *validator.Validator, rules Rules) {
	v.Check(rules.HalfLength > 0 && rules.HalfLength <= 90, "half_length",
		"must be between 1 and 90 minutes")
	v.Check(rules.Starters > 0 && rules.Starters <= 11, "starters", "must be between 1 and 11")
	v.Check(rules.CheckpointSeconds > 0, "checkpoint_seconds", "must be greater than 0")
	v.Check(rules.RecentEvents >= 0, "recent_events", "must be 0 or greater")
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
