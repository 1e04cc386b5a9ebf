package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path/filepath"

	"careerdeck/internal/types"
)

// Analyze uploads a resume and the target role for analysis.
func (c *Client) Analyze(ctx context.Context, filename string, resume io.Reader, targetRole string) (*types.Analysis, error) {
	body, contentType, err := multipartBody("file", filename, resume, map[string]string{"target_role": targetRole})
	if err != nil {
		return nil, err
	}
	var res types.Analysis
	if err := c.do(ctx, "POST", "/analyze", contentType, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type chatReply struct {
	Response string `json:"response"`
}

// Chat sends one career-chat turn.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var res chatReply
	if err := c.postForm(ctx, "/chat", url.Values{"message": {message}}, &res); err != nil {
		return "", err
	}
	return res.Response, nil
}

// ProjectContext tells the mentor where the student is.
type ProjectContext struct {
	Title            string `json:"title"`
	PhaseTitle       string `json:"phase_title"`
	PhaseDescription string `json:"phase_description"`
}

// FoundryRequest is the context sent with a mentor question.
type FoundryRequest struct {
	Message        string         `json:"message"`
	Code           string         `json:"code"`
	ProjectContext ProjectContext `json:"project_context"`
}

// FoundryChat asks the project mentor a question about the current phase.
func (c *Client) FoundryChat(ctx context.Context, req FoundryRequest) (string, error) {
	var res chatReply
	if err := c.sendJSON(ctx, "POST", "/foundry/chat", req, &res); err != nil {
		return "", err
	}
	return res.Response, nil
}

// RunCode has the server simulate the code against a phase objective and
// returns the terminal output with a short review.
func (c *Client) RunCode(ctx context.Context, code, objective string) (*types.CodeRun, error) {
	var res types.CodeRun
	in := map[string]string{"code": code, "phase_objective": objective}
	if err := c.sendJSON(ctx, "POST", "/foundry/validate", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// VerifyScreenshot uploads proof of a finished phase. An approved verdict
// unlocks phase submission.
func (c *Client) VerifyScreenshot(ctx context.Context, filename string, image io.Reader, objective string) (*types.Verification, error) {
	body, contentType, err := multipartBody("file", filename, image, map[string]string{"phase_objective": objective})
	if err != nil {
		return nil, err
	}
	var res types.Verification
	if err := c.do(ctx, "POST", "/foundry/verify", contentType, body, &res); err != nil {
		return nil, err
	}
	if res.Error != "" && !res.Approved && res.Feedback == "" {
		res.Feedback = res.Error
	}
	return &res, nil
}

// BuildResume generates a resume tailored to a job description from the
// user's completed projects.
func (c *Client) BuildResume(ctx context.Context, jobDescription string) (*types.Resume, error) {
	var res types.Resume
	if err := c.sendJSON(ctx, "POST", "/resume/build", map[string]string{"job_description": jobDescription}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// multipartBody encodes one file part plus plain fields.
func multipartBody(field, filename string, r io.Reader, fields map[string]string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(field, filepath.Base(filename))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", filepath.Base(filename), err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
