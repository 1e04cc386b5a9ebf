package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"careerdeck/internal/career"
	"careerdeck/internal/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeRole string

// analyzeCmd uploads a resume for analysis
var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file>",
	Short: "Analyze a resume against a target role",
	Long: `Uploads a resume (PDF or text) and prints the extracted skills,
the missing skills for the target role and the suggested projects.`,
	Args: cobra.ExactArgs(1),
	RunE: withEnv(runAnalyze),
}

// askCmd sends a single message to the career coach
var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask the career coach a question",
	Long: `Sends one message to the career coach and prints the reply.
Project suggestions embedded in the reply are listed after the text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withEnv(runAsk),
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeRole, "role", "r", "", "Target role (required)")
	_ = analyzeCmd.MarkFlagRequired("role")
}

func runAnalyze(ctx context.Context, e *env, args []string) error {
	if err := e.requireLogin(); err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open resume: %w", err)
	}
	defer f.Close()

	logger.Info("analyzing resume", zap.String("file", args[0]), zap.String("role", analyzeRole))
	res, err := e.client.Analyze(ctx, filepath.Base(args[0]), f, analyzeRole)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	p := res.Profile
	if p.PersonalDetails.Name != "" {
		fmt.Printf("Candidate: %s\n", p.PersonalDetails.Name)
	}
	if p.Summary != "" {
		fmt.Printf("\n%s\n", p.Summary)
	}
	fmt.Printf("\nSkills:  %s\n", strings.Join(p.CurrentSkills, ", "))
	if len(p.MissingSkills) > 0 {
		fmt.Printf("Missing: %s\n", strings.Join(p.MissingSkills, ", "))
	}
	printGeneratedProjects(career.Normalize(res.Projects, time.Now()))
	return nil
}

func runAsk(ctx context.Context, e *env, args []string) error {
	if err := e.requireLogin(); err != nil {
		return err
	}
	msg := joinArgs(args)
	if msg == "" {
		return fmt.Errorf("message required")
	}

	text, err := e.client.Chat(ctx, msg)
	if err != nil {
		logger.Warn("career chat failed", zap.Error(err))
		fmt.Println(career.ChatFallback)
		return nil
	}
	reply := career.ParseReply(text, time.Now())
	fmt.Println(reply.Text)
	if len(reply.Projects) > 0 {
		printGeneratedProjects(reply.Projects)
		if err := e.client.SaveGeneratedProjects(ctx, reply.Projects); err != nil {
			logger.Warn("saving generated projects failed", zap.Error(err))
		}
	}
	return nil
}

func printGeneratedProjects(projects []types.GeneratedProject) {
	if len(projects) == 0 {
		return
	}
	fmt.Println("\nSuggested projects:")
	for _, p := range projects {
		fmt.Printf("  %s %-40s [%s] %s\n", p.Icon, p.Title, p.Difficulty, strings.Join(p.Tech, ", "))
	}
}
