package services

import (
	"testing"

	"disputetrack/models"
	"disputetrack/repositories"
)

func newTemplateService() *TemplateService {
	return NewTemplateService(repositories.NewTemplateRepository())
}

func TestRenderPlaceholders(t *testing.T) {
	service := newTemplateService()

	payload := map[string]interface{}{
		"disputeId": "d-42",
		"amount":    99.5,
		"dispute":   map[string]interface{}{"status": "OPEN"},
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"simple", "Dispute {{disputeId}} updated", "Dispute d-42 updated"},
		{"spaces inside braces", "Dispute {{ disputeId }} updated", "Dispute d-42 updated"},
		{"number coerced", "Amount: {{amount}}", "Amount: 99.5"},
		{"dot path", "Now {{dispute.status}}", "Now OPEN"},
		{"unresolved stays verbatim", "Hello {{missing}}", "Hello {{missing}}"},
		{"mixed", "{{disputeId}} is {{unknown}}", "d-42 is {{unknown}}"},
		{"no placeholders", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := service.Render(models.NotificationTemplate{Title: tt.template}, payload)
			if got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestTemplateCRUD(t *testing.T) {
	service := newTemplateService()

	created, err := service.Create(models.CreateTemplateRequest{
		Name:     "sla-breach",
		Type:     models.TemplateTypeDispute,
		Category: models.CategoryUrgent,
		Title:    "SLA breached",
		Message:  "Dispute {{disputeId}} is overdue",
		Channels: []string{models.ChannelEmail, models.ChannelPush},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected an assigned id")
	}
	if !created.Enabled {
		t.Error("templates default to enabled")
	}

	fetched, err := service.Get(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if fetched.Name != "sla-breach" {
		t.Errorf("name = %s", fetched.Name)
	}

	newTitle := "SLA breach alert"
	updated, err := service.Update(created.ID, models.UpdateTemplateRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("title = %s, want %s", updated.Title, newTitle)
	}

	if err := service.Delete(created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := service.Get(created.ID); err == nil {
		t.Error("expected not found after delete")
	}
}

func TestTemplateCreateValidation(t *testing.T) {
	service := newTemplateService()

	tests := []struct {
		name string
		req  models.CreateTemplateRequest
	}{
		{
			"missing name",
			models.CreateTemplateRequest{Type: models.TemplateTypeDispute, Category: models.CategoryInfo, Title: "t", Message: "m", Channels: []string{models.ChannelEmail}},
		},
		{
			"bad type",
			models.CreateTemplateRequest{Name: "n", Type: "NOPE", Category: models.CategoryInfo, Title: "t", Message: "m", Channels: []string{models.ChannelEmail}},
		},
		{
			"bad channel",
			models.CreateTemplateRequest{Name: "n", Type: models.TemplateTypeDispute, Category: models.CategoryInfo, Title: "t", Message: "m", Channels: []string{"PIGEON"}},
		},
		{
			"no channels",
			models.CreateTemplateRequest{Name: "n", Type: models.TemplateTypeDispute, Category: models.CategoryInfo, Title: "t", Message: "m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.Create(tt.req); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
