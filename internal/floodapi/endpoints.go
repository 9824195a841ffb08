package floodapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mr1hm/ward-risk-dashboard/internal/models"
)

const (
	PathRiskSummary     = "/api/risk-summary"
	PathAdminOverview   = "/api/admin/overview"
	PathWards           = "/api/wards"
	PathPrediction      = "/api/prediction"
	PathAdminComplaints = "/api/admin/complaints"
	PathUpdateDrainage  = "/api/admin/update-drainage"
	PathComplaints      = "/api/complaints"
	PathHealth          = "/api/health"
)

// isoMillis matches what browsers produce for Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func (c *Client) RiskSummary(ctx context.Context) (models.RiskSummary, error) {
	var s models.RiskSummary
	if err := c.getJSON(ctx, PathRiskSummary, nil, &s); err != nil {
		return models.RiskSummary{}, err
	}
	return s, nil
}

type overviewResponse struct {
	Wards         json.RawMessage `json:"wards"`
	PriorityWards json.RawMessage `json:"priorityWards"`
}

// Overview fetches the admin table feed. A missing or non-array wards field
// is a validation error; an empty array is a valid, empty overview.
func (c *Client) Overview(ctx context.Context) (models.Overview, error) {
	var resp overviewResponse
	if err := c.getJSON(ctx, PathAdminOverview, nil, &resp); err != nil {
		return models.Overview{}, err
	}

	if isAbsent(resp.Wards) {
		return models.Overview{}, &models.ValidationError{Field: "wards", Reason: "is required"}
	}
	wards, err := decodeWardArray("wards", resp.Wards)
	if err != nil {
		return models.Overview{}, err
	}

	overview := models.Overview{Wards: wards}
	if !isAbsent(resp.PriorityWards) {
		priority, err := decodeWardArray("priorityWards", resp.PriorityWards)
		if err != nil {
			return models.Overview{}, err
		}
		overview.PriorityWards = priority
	}
	return overview, nil
}

func (c *Client) Prediction(ctx context.Context, hours int) (models.Prediction, error) {
	q := url.Values{}
	q.Set("hours", strconv.Itoa(hours))

	var p models.Prediction
	if err := c.getJSON(ctx, PathPrediction, q, &p); err != nil {
		return models.Prediction{}, err
	}
	if p.Hours == 0 {
		p.Hours = hours
	}
	return p, nil
}

type complaintRecord struct {
	WardID      string  `json:"ward_id"`
	Severity    string  `json:"severity"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Timestamp   *string `json:"timestamp"`
}

// Complaints lists every complaint on record, newest first as ordered by
// the backend. Unparseable timestamps are kept as zero times.
func (c *Client) Complaints(ctx context.Context) ([]models.Complaint, error) {
	var records []complaintRecord
	if err := c.getJSON(ctx, PathAdminComplaints, nil, &records); err != nil {
		return nil, err
	}

	complaints := make([]models.Complaint, 0, len(records))
	for _, r := range records {
		complaint := models.Complaint{
			WardID:   r.WardID,
			Severity: r.Severity,
		}
		if r.Description != nil {
			complaint.Description = *r.Description
		}
		if r.ImageURL != nil {
			complaint.ImageURL = *r.ImageURL
		}
		if r.Timestamp != nil {
			complaint.Timestamp = parseTimestamp(*r.Timestamp)
		}
		complaints = append(complaints, complaint)
	}
	return complaints, nil
}

type drainageRequest struct {
	WardID           string `json:"ward_id"`
	DrainageCapacity int    `json:"drainage_capacity"`
	IsCleaned        bool   `json:"is_cleaned"`
}

func (c *Client) UpdateDrainage(ctx context.Context, u models.DrainageUpdate) error {
	return c.postJSON(ctx, PathUpdateDrainage, drainageRequest{
		WardID:           u.WardID,
		DrainageCapacity: u.DrainageCapacity,
		IsCleaned:        u.IsCleaned,
	})
}

type complaintRequest struct {
	WardID      string `json:"ward_id"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Timestamp   string `json:"timestamp"`
}

func (c *Client) SubmitComplaint(ctx context.Context, s models.ComplaintSubmission, at time.Time) error {
	return c.postJSON(ctx, PathComplaints, complaintRequest{
		WardID:      s.WardID,
		Severity:    s.Severity,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		Timestamp:   at.UTC().Format(isoMillis),
	})
}

func (c *Client) Health(ctx context.Context) error {
	var body map[string]any
	return c.getJSON(ctx, PathHealth, nil, &body)
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func decodeWardArray(field string, raw json.RawMessage) ([]models.Ward, error) {
	var records []models.RawWard
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &models.ValidationError{Field: field, Reason: "must be an array of wards"}
	}

	wards := make([]models.Ward, 0, len(records))
	for i, r := range records {
		w, err := r.Ward()
		if err != nil {
			return nil, qualify(err, fmt.Sprintf("%s[%d]", field, i))
		}
		wards = append(wards, w)
	}
	return wards, nil
}

// qualify prefixes a ValidationError's field with its position in the
// response so the log says where the bad record was.
func qualify(err error, prefix string) error {
	if verr, ok := err.(*models.ValidationError); ok {
		q := *verr
		q.Field = prefix + "." + verr.Field
		return &q
	}
	return fmt.Errorf("%s: %w", prefix, err)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
