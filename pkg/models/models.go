package models

import "time"

// Mood is the five-step mood scale attached to a reflection
type Mood string

const (
	MoodGreat    Mood = "great"
	MoodGood     Mood = "good"
	MoodNormal   Mood = "normal"
	MoodBad      Mood = "bad"
	MoodTerrible Mood = "terrible"
)

// Moods lists every mood in display order
var Moods = []Mood{MoodGreat, MoodGood, MoodNormal, MoodBad, MoodTerrible}

var moodLabels = map[Mood]string{
	MoodGreat:    "매우 좋음",
	MoodGood:     "좋음",
	MoodNormal:   "보통",
	MoodBad:      "안좋음",
	MoodTerrible: "매우 안좋음",
}

// Label returns the localized label for the mood
func (m Mood) Label() string {
	return moodLabels[m]
}

// Valid reports whether m is one of the five known moods
func (m Mood) Valid() bool {
	_, ok := moodLabels[m]
	return ok
}

// Cycle is how often reflections are written
type Cycle string

const (
	CycleDaily    Cycle = "daily"
	CycleWeekly   Cycle = "weekly"
	CycleBiweekly Cycle = "biweekly"
	CycleMonthly  Cycle = "monthly"
)

// Valid reports whether c is a known cycle
func (c Cycle) Valid() bool {
	switch c {
	case CycleDaily, CycleWeekly, CycleBiweekly, CycleMonthly:
		return true
	}
	return false
}

// Answer is one question/answer pair of a reflection
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Reflection is a user-authored journal entry
type Reflection struct {
	ID            string    `json:"id"`
	LogID         string    `json:"log_id,omitempty"`
	ProjectID     string    `json:"project_id,omitempty"`
	SpaceID       string    `json:"space_id,omitempty"`
	TemplateID    string    `json:"template_id,omitempty"`
	Cycle         Cycle     `json:"cycle"`
	Content       string    `json:"content"`
	Mood          Mood      `json:"mood"`
	ProgressScore int       `json:"progress_score"` // 1-10
	Answers       []Answer  `json:"answers"`
	AIFeedback    string    `json:"ai_feedback,omitempty"`
	AIKeywords    []string  `json:"ai_keywords,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReflectionRequest is the payload posted when creating a reflection
type ReflectionRequest struct {
	LogID         string   `json:"log_id,omitempty"`
	ProjectID     string   `json:"project_id,omitempty"`
	SpaceID       string   `json:"space_id,omitempty"`
	TemplateID    string   `json:"template_id,omitempty"`
	Cycle         Cycle    `json:"cycle"`
	Content       string   `json:"content"`
	Answers       []Answer `json:"answers"`
	Mood          Mood     `json:"mood"`
	ProgressScore int      `json:"progress_score"`
}

// Template is a named, ordered set of reflection prompt questions
type Template struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Description     string   `json:"description" yaml:"description"`
	Category        string   `json:"category" yaml:"category"`
	Questions       []string `json:"questions" yaml:"questions"`
	RecommendedFor  []string `json:"recommended_for,omitempty" yaml:"recommended_for"`
	UsageCount      int      `json:"usage_count" yaml:"usage_count"`
	IsAIRecommended bool     `json:"is_ai_recommended" yaml:"is_ai_recommended"`
}

// JobScore is one externally computed job suitability score
type JobScore struct {
	JobID  string  `json:"job_id"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"` // 0-100
	Rank   int     `json:"rank,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

// SurveyResult is the backend's answer to a career survey submission
type SurveyResult struct {
	SurveyID       string     `json:"survey_id,omitempty"`
	PreferenceTop3 []JobScore `json:"preference_top3"`
	FitTop3        []JobScore `json:"fit_top3"`
	RecommendedJob JobScore   `json:"recommended_job"`
	Insights       []string   `json:"insights,omitempty"`
}

// Activity is an extracurricular activity recommendation
type Activity struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Category      string     `json:"category"` // contest, project, club, study, internship, volunteer
	Organizer     string     `json:"organizer,omitempty"`
	TargetJobs    []string   `json:"target_jobs"`
	Tags          []string   `json:"tags"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	ViewCount     int        `json:"view_count"`
	BookmarkCount int        `json:"bookmark_count"`
	IsBookmarked  bool       `json:"is_bookmarked"`
}

// Bookmark is a saved activity
type Bookmark struct {
	ActivityID   string     `json:"activity_id"`
	Title        string     `json:"title"`
	Type         string     `json:"type"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	BookmarkedAt time.Time  `json:"bookmarked_at"`
}

// Space is a shared collaboration context
type Space struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
	Status      string `json:"status"` // active, paused, completed
}

// SpaceRequest is the body sent to create a space
type SpaceRequest struct {
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	Type               string           `json:"type"` // contest, project, club, internship
	StartDate          string           `json:"start_date"`
	EndDate            string           `json:"end_date"`
	ReflectionSettings ReflectionPolicy `json:"reflection_settings"`
}

// ReflectionPolicy is how often a space asks for reflections
type ReflectionPolicy struct {
	Cycle   Cycle `json:"cycle"`
	Enabled bool  `json:"enabled"`
}

// TeamMember is a member of a space
type TeamMember struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"` // owner, member
	JoinedAt time.Time `json:"joined_at"`
}

// AuthResult is returned by the login and register endpoints
type AuthResult struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Profile is the registration form
type Profile struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
	University      string `json:"university,omitempty"`
	Major           string `json:"major,omitempty"`
	StudentID       string `json:"studentId,omitempty"`
	TargetJob       string `json:"targetJob,omitempty"`
}

// ActivityCount is one line of a story's activity summary
type ActivityCount struct {
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
	Count int    `json:"count"`
}

// Pattern is a recurring activity behind a mood change
type Pattern struct {
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
	Count int    `json:"count"`
}

// SuggestedActivity is a recommended next activity in a story
type SuggestedActivity struct {
	Title       string `json:"title"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// StoryData is the raw growth-story payload; every field may be absent
type StoryData struct {
	Period                string              `json:"period,omitempty"`
	PeriodLabel           string              `json:"period_label,omitempty"`
	IntroTitle            string              `json:"intro_title,omitempty"`
	IntroMessage          string              `json:"intro_message,omitempty"`
	TotalDays             int                 `json:"total_days,omitempty"`
	ActivitySummary       []ActivityCount     `json:"activity_summary,omitempty"`
	PositiveCount         int                 `json:"positive_count,omitempty"`
	PositivePatterns      []Pattern           `json:"positive_patterns,omitempty"`
	NegativeCount         int                 `json:"negative_count,omitempty"`
	NegativePatterns      []Pattern           `json:"negative_patterns,omitempty"`
	StrengthAnalysis      string              `json:"strength_analysis,omitempty"`
	SuggestedTracks       []string            `json:"suggested_tracks,omitempty"`
	NextSuggestion        string              `json:"next_suggestion,omitempty"`
	RecommendedActivities []SuggestedActivity `json:"recommended_activities,omitempty"`
}

// Draft is a locally saved reflection that has not been submitted yet
type Draft struct {
	ID            int       `json:"id"`
	LogID         string    `json:"log_id,omitempty"`
	ProjectID     string    `json:"project_id,omitempty"`
	SpaceID       string    `json:"space_id,omitempty"`
	TemplateID    string    `json:"template_id"`
	Cycle         Cycle     `json:"cycle"`
	Content       string    `json:"content"`
	Mood          Mood      `json:"mood"`
	ProgressScore int       `json:"progress_score"`
	Answers       []Answer  `json:"answers"`
	LastError     string    `json:"last_error"`
	CreatedAt     time.Time `json:"created_at"`
}

// MicroReflection is a short daily record of how an activity felt
// compared with usual.
type MicroReflection struct {
	ID           string    `json:"id"`
	ActivityType string    `json:"activity_type"`
	Memo         string    `json:"memo"`
	MoodCompare  string    `json:"mood_compare"` // worse, same, better
	Reason       string    `json:"reason,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Date         time.Time `json:"date"`
	SpaceID      string    `json:"space_id,omitempty"`
	IsFavorited  bool      `json:"is_favorited,omitempty"`
}

// ActivityLog is a dated note written against one activity
type ActivityLog struct {
	ID          string    `json:"id"`
	ActivityID  string    `json:"activityId"`
	Content     string    `json:"content"`
	Reflections string    `json:"reflections,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LogRequest creates or updates an activity log. On update only the
// non-nil fields are sent.
type LogRequest struct {
	ActivityID  *string   `json:"activityId,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Reflections *string   `json:"reflections,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Date        *string   `json:"date,omitempty"`
}
