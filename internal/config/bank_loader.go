package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/ats"

	"github.com/spf13/viper"
)

// supportedBankFormats are the keyword bank file extensions viper can read
var supportedBankFormats = map[string]string{
	".yaml": "yaml",
	".yml":  "yaml",
	".json": "json",
}

// LoadBankFile reads a keyword bank from a YAML or JSON file. Lists present
// in the file replace the built-in lists; section and STAR cue entries are
// replaced per key. Everything the file leaves out keeps its built-in value.
func LoadBankFile(filePath string) (ats.KeywordBank, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return ats.KeywordBank{}, fmt.Errorf("failed to resolve absolute path for keyword bank '%s': %w", filePath, err)
	}

	configType, ok := supportedBankFormats[strings.ToLower(filepath.Ext(absPath))]
	if !ok {
		return ats.KeywordBank{}, fmt.Errorf("unsupported keyword bank format: %s (use .yaml, .yml or .json)", absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ats.KeywordBank{}, fmt.Errorf("keyword bank file not found: %s", absPath)
		}
		return ats.KeywordBank{}, fmt.Errorf("failed to read keyword bank file '%s': %w", absPath, err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return ats.KeywordBank{}, fmt.Errorf("keyword bank file '%s' is empty", absPath)
	}

	v := viper.New()
	v.SetConfigType(configType)
	if err := v.ReadConfig(strings.NewReader(string(content))); err != nil {
		return ats.KeywordBank{}, fmt.Errorf("failed to parse keyword bank file '%s': %w", absPath, err)
	}

	var overrides ats.KeywordBank
	if err := v.Unmarshal(&overrides); err != nil {
		return ats.KeywordBank{}, fmt.Errorf("failed to decode keyword bank file '%s': %w", absPath, err)
	}

	bank := mergeBank(ats.DefaultBank(), overrides)
	if err := bank.Validate(); err != nil {
		return ats.KeywordBank{}, fmt.Errorf("keyword bank file '%s': %w", absPath, err)
	}

	log.Printf("[CONFIG] Successfully loaded keyword bank from file: %s (%d technical, %d soft skill, %d generic terms)",
		absPath, len(bank.Technical), len(bank.SoftSkills), len(bank.Generic))

	return bank, nil
}

// mergeBank overlays the non-empty parts of overrides onto base
func mergeBank(base, overrides ats.KeywordBank) ats.KeywordBank {
	lists := []struct {
		dst *[]string
		src []string
	}{
		{&base.Technical, overrides.Technical},
		{&base.SoftSkills, overrides.SoftSkills},
		{&base.Generic, overrides.Generic},
		{&base.ActionVerbs, overrides.ActionVerbs},
		{&base.StopWords, overrides.StopWords},
		{&base.FillerWords, overrides.FillerWords},
		{&base.IntentCues, overrides.IntentCues},
		{&base.ClosingCues, overrides.ClosingCues},
		{&base.TemplatePhrases, overrides.TemplatePhrases},
	}
	for _, l := range lists {
		if len(l.src) > 0 {
			*l.dst = l.src
		}
	}

	for section, synonyms := range overrides.Sections {
		if len(synonyms) > 0 {
			base.Sections[strings.ToLower(section)] = synonyms
		}
	}
	for component, cues := range overrides.StarCues {
		if len(cues) > 0 {
			base.StarCues[strings.ToLower(component)] = cues
		}
	}
	return base
}
