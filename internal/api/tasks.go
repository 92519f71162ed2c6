package api

import (
	"context"
	"net/url"
	"strconv"
)

// DashboardTask is one row of the operator task dashboard.
type DashboardTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Status      string `json:"status"` // "pending" | "progress" | "completed"
	StatusLabel string `json:"statusLabel"`
	Description string `json:"description,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
	DaysLeft    int    `json:"daysLeft,omitempty"`
	MinScore    int    `json:"minScore,omitempty"`
	Score       int    `json:"score,omitempty"`
	Attempts    struct {
		Current   int `json:"current"`
		Total     int `json:"total"`
		Remaining int `json:"remaining"`
	} `json:"attempts"`
}

// Dashboard is the operator's task overview.
type Dashboard struct {
	Stats struct {
		Pending     int    `json:"pending"`
		Completed   int    `json:"completed"`
		SuccessRate string `json:"successRate"`
	} `json:"stats"`
	Tasks []DashboardTask `json:"tasks"`
}

// TaskDashboard fetches the operator's assigned tasks and headline stats.
func (c *Client) TaskDashboard(ctx context.Context, operatorID int) (*Dashboard, error) {
	var out Dashboard
	if err := c.get(ctx, "/ai/tasks/dashboard?operator_id="+strconv.Itoa(operatorID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TaskStart is the result of claiming a task: the scenario to run and the
// durable attempt to run it under.
type TaskStart struct {
	Mode          string `json:"mode"` // "new" | "resume"
	AttemptID     string `json:"attempt_id"`
	ScenarioTitle string `json:"scenario_title"`
}

// StartTask claims a task for the operator, creating or resuming an attempt.
func (c *Client) StartTask(ctx context.Context, taskID string, operatorID int) (*TaskStart, error) {
	path := "/ai/tasks/" + url.PathEscape(taskID) + "/start?operator_id=" + strconv.Itoa(operatorID)
	var out TaskStart
	if err := c.post(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HistoryCall is one completed call in the operator's history.
type HistoryCall struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Severity string `json:"severity"` // "critical" | "high" | "medium"
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration string `json:"duration"`
	Score    int    `json:"score"`
}

// History is the operator's call history with headline stats.
type History struct {
	Stats struct {
		TotalCalls   int     `json:"totalCalls"`
		AverageScore float64 `json:"averageScore"`
		LastCallDate string  `json:"lastCallDate"`
	} `json:"stats"`
	Calls []HistoryCall `json:"calls"`
}

// CallHistory fetches the operator's completed calls.
func (c *Client) CallHistory(ctx context.Context, operatorID int) (*History, error) {
	var out History
	if err := c.get(ctx, "/ai/history?operator_id="+strconv.Itoa(operatorID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Skill is one tracked competency with current and target levels.
type Skill struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Current int    `json:"current"`
	Target  int    `json:"target"`
}

// SkillStats fetches the operator's per-skill progress.
func (c *Client) SkillStats(ctx context.Context, operatorID int) ([]Skill, error) {
	var out []Skill
	if err := c.get(ctx, "/ai/stats/skills?operator_id="+strconv.Itoa(operatorID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StatsSummary is the operator's aggregate performance summary.
type StatsSummary struct {
	TotalCalls   int     `json:"totalCalls"`
	AverageScore float64 `json:"averageScore"`
	AverageTime  string  `json:"averageTime"`
	BestScore    float64 `json:"bestScore"`
}

// Summary fetches the operator's aggregate stats.
func (c *Client) Summary(ctx context.Context, operatorID int) (*StatsSummary, error) {
	var out StatsSummary
	if err := c.get(ctx, "/ai/stats/summary?operator_id="+strconv.Itoa(operatorID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
