package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"careerdeck/cmd/deck/ui"
	"careerdeck/cmd/deck/views"
	"careerdeck/internal/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resumeJobFile string

// resumeCmd builds a resume tailored to a job description
var resumeCmd = &cobra.Command{
	Use:   "resume [job description]",
	Short: "Generate a resume tailored to a job description",
	Long: `Sends a job description to the resume builder and prints the
generated resume. The description is read from --file when given.`,
	RunE: withEnv(runResume),
}

// verifyCmd submits a screenshot as proof for the current phase
var verifyCmd = &cobra.Command{
	Use:   "verify <project-id> <screenshot>",
	Short: "Verify a screenshot against the current phase objective",
	Args:  cobra.ExactArgs(2),
	RunE:  withEnv(runVerify),
}

func init() {
	resumeCmd.Flags().StringVarP(&resumeJobFile, "file", "f", "", "Read the job description from a file")
	rootCmd.AddCommand(resumeCmd, verifyCmd)
}

func runResume(ctx context.Context, e *env, args []string) error {
	if err := e.requireLogin(); err != nil {
		return err
	}
	jd := joinArgs(args)
	if resumeJobFile != "" {
		data, err := os.ReadFile(resumeJobFile)
		if err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
		jd = strings.TrimSpace(string(data))
	}
	if jd == "" {
		return fmt.Errorf("job description required")
	}

	logger.Info("building resume", zap.Int("job_description_len", len(jd)))
	r, err := e.client.BuildResume(ctx, jd)
	if err != nil {
		return fmt.Errorf("failed to generate resume: %w", err)
	}
	fmt.Println(views.RenderResume(ui.DefaultStyles(), *r, 80))
	return nil
}

func runVerify(ctx context.Context, e *env, args []string) error {
	if err := e.requireLogin(); err != nil {
		return err
	}
	p, err := e.client.Project(ctx, args[0])
	if err != nil {
		return err
	}
	objective := "Run code"
	for _, ph := range p.Phases {
		if ph.ID == p.CurrentPhase && ph.Description != "" {
			objective = ph.Description
		}
	}

	f, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("open screenshot: %w", err)
	}
	defer f.Close()

	v, err := e.client.VerifyScreenshot(ctx, filepath.Base(args[1]), f, objective)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	printVerification(*v)
	return nil
}

func printVerification(v types.Verification) {
	if v.Approved {
		fmt.Printf("✅ VERIFIED: %s\n", v.Feedback)
		return
	}
	fmt.Printf("❌ REJECTED: %s\n", v.Feedback)
}
