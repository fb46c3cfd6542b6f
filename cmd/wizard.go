package cmd

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/logger"
	"github.com/jobradar/jobradar/internal/profile"
)

const (
	PromptBack = "back"
	PromptYes  = "Yes"
	PromptNo   = "No"
)

// errBack signals that the user wants to revisit the previous wizard step.
var errBack = errors.New("back requested")

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or update your search profile through an interactive wizard",
	Run: func(_ *cobra.Command, _ []string) {
		wizard()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// wizardStep fills one part of the profile. Returning errBack moves the
// wizard one step backwards instead of forwards.
type wizardStep struct {
	name string
	run  func(*profile.Profile) error
}

func wizard() {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	path := config.profilePath()

	prof := &profile.Profile{
		Arrangement: job.ArrangementAny,
		MinScore:    3.0,
	}
	if existing, err := profile.Load(path); err == nil {
		prof = existing
		zlog.Info("editing existing profile", zap.String("path", path))
	}

	steps := []wizardStep{
		{name: "core skills", run: askCoreSkills},
		{name: "secondary skills", run: askSecondarySkills},
		{name: "target titles", run: askTargetTitles},
		{name: "location", run: askLocation},
		{name: "work arrangement", run: askArrangement},
		{name: "minimum salary", run: askMinSalary},
		{name: "minimum score", run: askMinScore},
		{name: "dealbreakers", run: askDealbreakers},
		{name: "new postings only", run: askNewOnly},
	}

	// Steps advance one at a time; errBack rewinds to the previous one so
	// the user can fix an earlier answer without starting over.
	for i := 0; i < len(steps); {
		err := steps[i].run(prof)
		if err == nil {
			i++
			continue
		}
		if errors.Is(err, errBack) {
			if i > 0 {
				i--
			}
			continue
		}
		zlog.Fatal("wizard aborted", zap.String("step", steps[i].name), zap.Error(err))
	}

	if err := profile.Save(path, prof); err != nil {
		zlog.Fatal("saving profile", zap.Error(err))
	}

	zlog.Info("profile saved", zap.String("path", path))
}

// askList prompts for a comma-separated list. Typing "back" rewinds.
func askList(label string, current []string, required bool) ([]string, error) {
	prompt := promptui.Prompt{
		Label:   label + " (comma-separated, 'back' to go back)",
		Default: strings.Join(current, ", "),
		Validate: func(input string) error {
			if !required {
				return nil
			}
			if strings.TrimSpace(input) == "" {
				return errors.New("at least one entry is required")
			}
			return nil
		},
	}

	input, err := prompt.Run()
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(strings.TrimSpace(input), PromptBack) {
		return nil, errBack
	}

	return splitList(input), nil
}

func splitList(input string) []string {
	var out []string
	for _, item := range strings.Split(input, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func askCoreSkills(prof *profile.Profile) error {
	skills, err := askList("Core skills", prof.CoreSkills, true)
	if err != nil {
		return err
	}
	prof.CoreSkills = skills
	return nil
}

func askSecondarySkills(prof *profile.Profile) error {
	skills, err := askList("Secondary skills", prof.SecondarySkills, false)
	if err != nil {
		return err
	}
	prof.SecondarySkills = skills
	return nil
}

func askTargetTitles(prof *profile.Profile) error {
	titles, err := askList("Target job titles", prof.TargetTitles, false)
	if err != nil {
		return err
	}
	prof.TargetTitles = titles
	return nil
}

func askLocation(prof *profile.Profile) error {
	prompt := promptui.Prompt{
		Label:   "Location ('back' to go back)",
		Default: prof.Location,
	}

	input, err := prompt.Run()
	if err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(input), PromptBack) {
		return errBack
	}

	prof.Location = strings.TrimSpace(input)
	return nil
}

func askArrangement(prof *profile.Profile) error {
	arrangements := []job.Arrangement{
		job.ArrangementRemote,
		job.ArrangementHybrid,
		job.ArrangementOnsite,
		job.ArrangementAny,
	}

	items := make([]string, 0, len(arrangements)+1)
	for _, a := range arrangements {
		items = append(items, string(a))
	}
	items = append(items, PromptBack)

	prompt := promptui.Select{
		Label: "Preferred work arrangement",
		Items: items,
	}

	_, selected, err := prompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return errBack
	}

	prof.Arrangement = job.Arrangement(selected)
	return nil
}

func askMinSalary(prof *profile.Profile) error {
	current := ""
	if prof.MinSalary > 0 {
		current = strconv.Itoa(prof.MinSalary)
	}

	prompt := promptui.Prompt{
		Label:   "Minimum annual salary, empty for none ('back' to go back)",
		Default: current,
		Validate: func(input string) error {
			input = strings.TrimSpace(input)
			if input == "" || strings.EqualFold(input, PromptBack) {
				return nil
			}
			if _, err := strconv.Atoi(strings.ReplaceAll(input, ",", "")); err != nil {
				return errors.New("enter a number, e.g. 120000")
			}
			return nil
		},
	}

	input, err := prompt.Run()
	if err != nil {
		return err
	}
	input = strings.TrimSpace(input)
	if strings.EqualFold(input, PromptBack) {
		return errBack
	}
	if input == "" {
		prof.MinSalary = 0
		return nil
	}

	prof.MinSalary, _ = strconv.Atoi(strings.ReplaceAll(input, ",", ""))
	return nil
}

func askMinScore(prof *profile.Profile) error {
	prompt := promptui.Prompt{
		Label:   "Minimum score, 0-5 ('back' to go back)",
		Default: strconv.FormatFloat(prof.MinScore, 'f', 1, 64),
		Validate: func(input string) error {
			input = strings.TrimSpace(input)
			if strings.EqualFold(input, PromptBack) {
				return nil
			}
			v, err := strconv.ParseFloat(input, 64)
			if err != nil || v < 0 || v > 5 {
				return errors.New("enter a number between 0 and 5")
			}
			return nil
		},
	}

	input, err := prompt.Run()
	if err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(input), PromptBack) {
		return errBack
	}

	prof.MinScore, _ = strconv.ParseFloat(strings.TrimSpace(input), 64)
	return nil
}

func askDealbreakers(prof *profile.Profile) error {
	terms, err := askList("Dealbreaker terms", prof.Dealbreakers, false)
	if err != nil {
		return err
	}
	prof.Dealbreakers = terms
	return nil
}

func askNewOnly(prof *profile.Profile) error {
	prompt := promptui.Select{
		Label: "Only show postings not seen in prior runs?",
		Items: []string{PromptNo, PromptYes, PromptBack},
	}

	_, selected, err := prompt.Run()
	if err != nil {
		return err
	}

	switch selected {
	case PromptBack:
		return errBack
	case PromptYes:
		prof.NewOnly = true
	default:
		prof.NewOnly = false
	}
	return nil
}
