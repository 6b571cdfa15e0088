package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/tracedump/tracedump/internal/domain"
	apperrors "github.com/tracedump/tracedump/internal/pkg/errors"
)

type experimentsResponse struct {
	Experiments []domain.Experiment `json:"experiments"`
}

type experimentResponse struct {
	Experiment *domain.Experiment `json:"experiment"`
}

type runsResponse struct {
	Runs []domain.Run `json:"runs"`
}

type runResponse struct {
	Run *domain.Run `json:"run"`
}

type metricsResponse struct {
	Metrics []domain.Metric `json:"metrics"`
}

type artifactsResponse struct {
	Files []domain.Artifact `json:"files"`
}

type tracesResponse struct {
	Traces []json.RawMessage `json:"traces"`
}

// ListExperiments fetches every experiment on the server. Single call, no
// pagination.
func (c *Client) ListExperiments(ctx context.Context) ([]domain.Experiment, error) {
	status, body, err := c.get(ctx, "/experiments/list", nil)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, apperrors.Fetch("experiments").WithDetail("status", strconv.Itoa(status))
	}

	var resp experimentsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.Fetch("experiments").WithError(err)
	}
	return resp.Experiments, nil
}

// GetExperiment fetches a single experiment by ID.
func (c *Client) GetExperiment(ctx context.Context, experimentID string) (*domain.Experiment, error) {
	query := url.Values{"experiment_id": {experimentID}}
	status, body, err := c.get(ctx, "/experiments/get", query)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, apperrors.NotFound("experiment " + experimentID).WithDetail("status", strconv.Itoa(status))
	}

	var resp experimentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.Fetch("experiment " + experimentID).WithError(err)
	}
	if resp.Experiment == nil {
		return nil, apperrors.NotFound("experiment " + experimentID)
	}
	return resp.Experiment, nil
}

// SearchRuns fetches the runs of an experiment. Only the first page is
// fetched; MaxResults caps the page size. Large servers silently truncate.
func (c *Client) SearchRuns(ctx context.Context, experimentID string) ([]domain.Run, error) {
	query := url.Values{
		"experiment_ids": {experimentID},
		"max_results":    {strconv.Itoa(c.cfg.MaxResults)},
	}
	status, body, err := c.get(ctx, "/runs/search", query)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, apperrors.Fetch("runs for experiment " + experimentID).WithDetail("status", strconv.Itoa(status))
	}

	var resp runsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.Fetch("runs for experiment " + experimentID).WithError(err)
	}
	return resp.Runs, nil
}

// GetRun fetches the full record of a run, including tags and params.
func (c *Client) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	query := url.Values{"run_id": {runID}}
	status, body, err := c.get(ctx, "/runs/get", query)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, apperrors.Fetch("run " + runID).WithDetail("status", strconv.Itoa(status))
	}

	var resp runResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.Fetch("run " + runID).WithError(err)
	}
	if resp.Run == nil {
		return nil, apperrors.NotFound("run " + runID)
	}
	return resp.Run, nil
}

// GetMetricHistory fetches the metric history of a run. Non-2xx responses
// mean "no data", not failure.
func (c *Client) GetMetricHistory(ctx context.Context, runID string) ([]domain.Metric, error) {
	query := url.Values{"run_id": {runID}}
	status, body, err := c.get(ctx, "/metrics/get-history", query)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, nil
	}

	var resp metricsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil
	}
	return resp.Metrics, nil
}

// ListArtifacts fetches the artifact listing of a run. Non-2xx responses
// mean "no data", not failure.
func (c *Client) ListArtifacts(ctx context.Context, runID string) ([]domain.Artifact, error) {
	query := url.Values{"run_id": {runID}}
	status, body, err := c.get(ctx, "/artifacts/list", query)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, nil
	}

	var resp artifactsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil
	}
	return resp.Files, nil
}

// DownloadArtifact fetches the raw text of a single artifact. A missing
// artifact returns a Fetch error; callers skip it and continue.
func (c *Client) DownloadArtifact(ctx context.Context, runID, path string) (string, error) {
	query := url.Values{
		"run_id": {runID},
		"path":   {path},
	}
	status, body, err := c.get(ctx, "/artifacts/download", query)
	if err != nil {
		return "", err
	}
	if !is2xx(status) {
		return "", apperrors.Fetch("artifact " + path).WithDetail("status", strconv.Itoa(status))
	}
	return string(body), nil
}

// SearchTraces queries the dedicated trace-search endpoint for a run.
// Older servers do not expose the endpoint; non-2xx means "no traces".
func (c *Client) SearchTraces(ctx context.Context, runID string) ([]json.RawMessage, error) {
	query := url.Values{"run_id": {runID}}
	status, body, err := c.get(ctx, "/traces/search", query)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, nil
	}

	var resp tracesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil
	}
	return resp.Traces, nil
}
