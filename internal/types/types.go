// Package types holds the wire and domain types shared by the API client,
// the view models and the TUI.
package types

// =============================================================================
// COMMUNITY
// =============================================================================

// Channel is a community chat channel.
type Channel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Message is a single community chat message.
// Server-issued messages carry the server id; locally synthesized ones carry
// a "local-" prefixed id until the next reconcile replaces them.
// Time is a display string ("10:30:00 AM"), never parsed.
type Message struct {
	ID       string `json:"id"`
	Author   string `json:"user"`
	Avatar   string `json:"avatar,omitempty"`
	Role     string `json:"role,omitempty"`
	Body     string `json:"content"`
	Type     string `json:"type,omitempty"`
	Language string `json:"language,omitempty"` // type "code"
	Size     string `json:"size,omitempty"`     // type "file"
	Channel  string `json:"channel"`
	Time     string `json:"time"`
}

// =============================================================================
// PROJECTS
// =============================================================================

// Phase is one step of a project roadmap. Description doubles as the
// phase objective sent to code review, screenshot verification and the mentor.
type Phase struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tasks       []string `json:"tasks,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// Project is a server-owned project snapshot. It is treated as an
// immutable value and only refreshed by re-fetching.
type Project struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	TechStack    string  `json:"tech_stack"`
	CurrentPhase int     `json:"current_phase"`
	TotalPhases  int     `json:"total_phases"`
	Phases       []Phase `json:"phases"`
	StartedAt    string  `json:"started_at,omitempty"`
	Code         string  `json:"code,omitempty"`
}

// ActivePhase returns the phase matching CurrentPhase, if any.
func (p Project) ActivePhase() (Phase, bool) {
	for _, ph := range p.Phases {
		if ph.ID == p.CurrentPhase {
			return ph, true
		}
	}
	return Phase{}, false
}

// Milestone is a task inside a generated project suggestion.
type Milestone struct {
	Task   string `json:"task"`
	Status string `json:"status"`
}

// GeneratedProject is an AI-suggested project shown in the project lab.
type GeneratedProject struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Milestones  []Milestone `json:"milestones,omitempty"`
	Difficulty  string      `json:"difficulty"`
	Tech        []string    `json:"tech,omitempty"`
	Icon        string      `json:"icon"`
	Color       string      `json:"color"`
}

// =============================================================================
// PROFILE
// =============================================================================

// Goal is a user goal that can be toggled done.
type Goal struct {
	ID     int    `json:"id"`
	Text   string `json:"text"`
	Tag    string `json:"tag,omitempty"`
	Color  string `json:"color,omitempty"`
	IsDone bool   `json:"is_done"`
}

// ActivityDay is one day of learning activity as reported by the server.
type ActivityDay struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Level int     `json:"level"`
	Hours float64 `json:"hours"`
}

// Profile is the user profile.
type Profile struct {
	FullName    string        `json:"full_name"`
	Email       string        `json:"email"`
	Bio         string        `json:"bio"`
	Location    string        `json:"location"`
	Avatar      string        `json:"avatar,omitempty"`
	GrowthStage string        `json:"growth_stage,omitempty"`
	Role        string        `json:"role,omitempty"`
	Projects    int           `json:"active_projects_count,omitempty"`
	Trees       int           `json:"trees_planted,omitempty"`
	Goals       []Goal        `json:"goals,omitempty"`
	Activity    []ActivityDay `json:"activity,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// ProfileUpdate is the editable subset of a profile.
type ProfileUpdate struct {
	FullName string `json:"full_name"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
}

// User is the identity returned by login/signup.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// =============================================================================
// DASHBOARD
// =============================================================================

// ResumeAnalysis is the structured resume analysis produced by /analyze.
// Only the fields the client renders are typed.
type ResumeAnalysis struct {
	PersonalDetails struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"personal_details"`
	CurrentSkills []string `json:"current_skills"`
	MissingSkills []string `json:"skill_gaps,omitempty"`
	GrowthStage   string   `json:"growth_stage,omitempty"`
	Summary       string   `json:"summary,omitempty"`
}

// MarketMatch restores the dashboard from the latest stored analysis.
type MarketMatch struct {
	Analysis ResumeAnalysis     `json:"profile"`
	Projects []GeneratedProject `json:"projects"`
	Role     string             `json:"role"`
	Stage    string             `json:"stage"`
	Error    string             `json:"error,omitempty"`
}

// JobMatch is a job listing with a match score.
type JobMatch struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location,omitempty"`
	Salary      string   `json:"salary,omitempty"`
	Type        string   `json:"type,omitempty"`
	MatchScore  int      `json:"match_score"`
	Skills      []string `json:"skills,omitempty"`
	Description string   `json:"description,omitempty"`
	Posted      string   `json:"posted,omitempty"`
	Link        string   `json:"link,omitempty"`
}

// LiveFeeds lists trending job titles and project ideas.
type LiveFeeds struct {
	HotJobs     []string `json:"hot_jobs"`
	HotProjects []string `json:"hot_projects"`
}

// TickerEntry is one market ticker quote.
type TickerEntry struct {
	Symbol string  `json:"symbol"`
	Label  string  `json:"label,omitempty"`
	Change float64 `json:"change"`
}

// GrowthStatus reports the user's growth stage and its progress value.
type GrowthStatus struct {
	Progress int    `json:"progress"`
	Stage    string `json:"stage"`
}

// Dashboard aggregates the read-only dashboard content.
type Dashboard struct {
	Market *MarketMatch
	Jobs   []JobMatch
	Feeds  LiveFeeds
	Ticker []TickerEntry
	Growth GrowthStatus
}

// =============================================================================
// ANALYSIS
// =============================================================================

// Analysis is the result of a resume analysis.
type Analysis struct {
	Profile  ResumeAnalysis     `json:"profile"`
	Projects []GeneratedProject `json:"projects"`
}

// CodeRun is the simulated execution of editor code: the terminal output
// and a one-line review.
type CodeRun struct {
	Output string `json:"output"`
	Review string `json:"review"`
}

// Verification is the verdict on a proof-of-work screenshot.
type Verification struct {
	Approved bool   `json:"approved"`
	Feedback string `json:"feedback"`
	Error    string `json:"error,omitempty"`
}

// =============================================================================
// RESUME
// =============================================================================

// ResumeProject is a project entry in a generated resume.
type ResumeProject struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets,omitempty"`
}

// ResumeExperience is a work history entry.
type ResumeExperience struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description,omitempty"`
}

// ResumeEducation is an education entry.
type ResumeEducation struct {
	Degree     string `json:"degree"`
	University string `json:"university"`
	Year       string `json:"year"`
}

// Resume is a resume tailored to a job description.
type Resume struct {
	PersonalDetails struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone,omitempty"`
	} `json:"personal_details"`
	Summary         string             `json:"summary"`
	Projects        []ResumeProject    `json:"projects_section,omitempty"`
	Experience      []ResumeExperience `json:"experience_section,omitempty"`
	Education       []ResumeEducation  `json:"education_section,omitempty"`
	Skills          []string           `json:"skills_section,omitempty"`
	ImprovementTips string             `json:"improvement_tips,omitempty"`
}
