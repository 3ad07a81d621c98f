// Command matchsim drives the core simulation package from the outside.
// The core stays free of any CLI/environment concern (§6); this thin
// driver only wires flags, plans and storage together.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"footballsim/internal/calibration"
	"footballsim/internal/snapshot"

	match "footballsim"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "matchsim",
		Short: "Run and calibrate the football match simulation core",
	}
	root.AddCommand(simulateCmd(), calibrateCmd())
	return root
}

func simulateCmd() *cobra.Command {
	var seed uint64
	var ticks int
	var planPath string
	var positionsPath string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one match to completion and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadOrDemoPlan(planPath, seed)
			if err != nil {
				return err
			}
			plan.RecordPositions = positionsPath != ""
			m := match.NewMatch(plan, match.NullRecorder{})
			for i := 0; i < ticks && !m.Finished(); i++ {
				m.Step(0.5, 0.5, 0.5)
			}
			printSummary(m)
			if positionsPath != "" {
				result := m.Result()
				b, err := snapshot.EncodePositions(result.PositionData)
				if err != nil {
					return fmt.Errorf("encode position frames: %w", err)
				}
				if err := os.WriteFile(positionsPath, b, 0o644); err != nil {
					return fmt.Errorf("write position frames: %w", err)
				}
				fmt.Printf("wrote %d position frames to %s\n", len(result.PositionData), positionsPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&positionsPath, "positions-out", "", "write the 4Hz msgpack position replay to this path (omit to skip recording)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "deterministic match seed")
	cmd.Flags().IntVar(&ticks, "ticks", 28800, "maximum ticks to run (28800 = full 120 minutes at 4Hz)")
	cmd.Flags().StringVar(&planPath, "plan", "", "path to a JSON-encoded MatchPlan (omit for a demo roster)")
	return cmd
}

func calibrateCmd() *cobra.Command {
	var seeds int
	var ticks int
	var dbPath string
	var planPath string

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Run N seeded matches and persist per-team calibration aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := calibration.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			for seed := 1; seed <= seeds; seed++ {
				plan, err := loadOrDemoPlan(planPath, uint64(seed))
				if err != nil {
					return err
				}
				m := match.NewMatch(plan, match.NullRecorder{})
				for i := 0; i < ticks && !m.Finished(); i++ {
					m.Step(0.5, 0.5, 0.5)
				}
				if err := store.SaveSnapshot(uint64(seed), plan.Home.Name, true, m.CalibHome); err != nil {
					return err
				}
				if err := store.SaveSnapshot(uint64(seed), plan.Away.Name, false, m.CalibAway); err != nil {
					return err
				}
				fmt.Printf("seed %d: %s %d - %d %s\n", seed, plan.Home.Name, m.Home.Score, m.Away.Score, plan.Away.Name)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&seeds, "seeds", 10, "number of seeded matches to run")
	cmd.Flags().IntVar(&ticks, "ticks", 28800, "maximum ticks per match")
	cmd.Flags().StringVar(&dbPath, "db", "calibration.sqlite", "path to the calibration SQLite database")
	cmd.Flags().StringVar(&planPath, "plan", "", "path to a JSON-encoded MatchPlan (omit for a demo roster)")
	return cmd
}

func printSummary(m *match.Match) {
	total := m.Home.Score + m.Away.Score
	fmt.Printf("%s %d - %d %s\n", m.Home.Name, m.Home.Score, m.Away.Score, m.Away.Name)
	fmt.Printf("%s goals, %s minutes simulated\n",
		humanize.Comma(int64(total)), humanize.Comma(int64(m.Minute)))
	fmt.Printf("shots: home %d (%d on target), away %d (%d on target)\n",
		m.CalibHome.ShotAttempts, m.CalibHome.ShotOnTarget,
		m.CalibAway.ShotAttempts, m.CalibAway.ShotOnTarget)
}

func loadOrDemoPlan(path string, seed uint64) (match.MatchPlan, error) {
	if path == "" {
		return demoPlan(seed), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return match.MatchPlan{}, fmt.Errorf("read plan file: %w", err)
	}
	var plan match.MatchPlan
	if err := json.Unmarshal(b, &plan); err != nil {
		return match.MatchPlan{}, fmt.Errorf("parse plan file: %w", err)
	}
	if plan.Seed == 0 {
		plan.Seed = seed
	}
	return plan, nil
}

// demoPlan builds two evenly-matched 11-player sides with a 4-3-3
// formation, used when no --plan file is given.
func demoPlan(seed uint64) match.MatchPlan {
	return match.MatchPlan{
		Home:       demoTeam("Home"),
		Away:       demoTeam("Away"),
		Seed:       seed,
		Dispatcher: match.ModeDispatcherPrimary,
	}
}

func demoTeam(name string) match.TeamPlan {
	formationX := [11]float64{5, 20, 20, 20, 20, 45, 45, 45, 70, 70, 70}
	formationY := [11]float64{34, 10, 27, 41, 58, 15, 34, 53, 20, 34, 48}
	roster := make([]match.RosterPlayer, 11)
	for i := range roster {
		roster[i] = match.RosterPlayer{
			Name:       fmt.Sprintf("%s %d", name, i+1),
			Attributes: demoAttributes(),
			Overall:    12,
			Condition:  1.0,
			FormationX: formationX[i],
			FormationY: formationY[i],
		}
	}
	return match.TeamPlan{
		Name:         name,
		Roster:       roster,
		Instructions: match.DefaultTeamInstructions(),
	}
}

func demoAttributes() match.PlayerAttributes {
	return match.PlayerAttributes{
		Passing: 12, FirstTouch: 12, Dribbling: 12, Finishing: 12, LongShots: 10,
		Crossing: 11, Heading: 11, Jumping: 11, Tackling: 11, Marking: 11,
		Positioning: 12, Anticipation: 11, Vision: 12, Technique: 12, Decisions: 12,
		Composure: 11, Concentration: 11, Pace: 12, Acceleration: 12, Agility: 12,
		Balance: 12, Strength: 12, Stamina: 13, Bravery: 11, Aggression: 11,
		Teamwork: 12, WorkRate: 12, Flair: 10, OffTheBall: 11,
		Corners: 10, FreeKicks: 10, PenaltyTaking: 10,
	}
}
