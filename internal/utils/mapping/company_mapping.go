package mapping

import (
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	"github.com/swisscockpit/kmu-cockpit/internal/models"
)

// ToModelCompany converts a domain company to its table row form.
func ToModelCompany(c domain.Company) models.Company {
	return models.Company{
		CompanyID:   c.CompanyID,
		Name:        c.Name,
		LegalForm:   c.LegalForm,
		VATNumber:   c.VATNumber,
		Street:      c.Street,
		ZIP:         c.ZIP,
		City:        c.City,
		Canton:      c.Canton,
		IsActive:    c.IsActive,
		AuditFields: ToModelAuditFields(c.AuditFields),
	}
}

// ToDomainCompany converts a companies table row to the domain form.
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		LegalForm:   m.LegalForm,
		VATNumber:   m.VATNumber,
		Street:      m.Street,
		ZIP:         m.ZIP,
		City:        m.City,
		Canton:      m.Canton,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTask converts a domain task to its table row form.
func ToModelTask(t domain.Task) models.Task {
	return models.Task{
		TaskID:      t.TaskID,
		CompanyID:   t.CompanyID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Area:        t.Area,
		AssigneeID:  t.AssigneeID,
		DueDate:     t.DueDate,
		AuditFields: ToModelAuditFields(t.AuditFields),
	}
}

// ToDomainTask converts a tasks table row to the domain form.
func ToDomainTask(m models.Task) domain.Task {
	return domain.Task{
		TaskID:      m.TaskID,
		CompanyID:   m.CompanyID,
		Title:       m.Title,
		Description: m.Description,
		Status:      domain.TaskStatus(m.Status),
		Priority:    domain.TaskPriority(m.Priority),
		Area:        m.Area,
		AssigneeID:  m.AssigneeID,
		DueDate:     m.DueDate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTaskSlice converts a slice of task rows.
func ToDomainTaskSlice(ms []models.Task) []domain.Task {
	out := make([]domain.Task, len(ms))
	for i, m := range ms {
		out[i] = ToDomainTask(m)
	}
	return out
}

// ToDomainUser converts a users table row to the domain form.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:         m.UserID,
		Email:          m.Email,
		Name:           m.Name,
		HashedPassword: m.HashedPassword,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainConversation converts a conversations table row to the domain form.
func ToDomainConversation(m models.Conversation) domain.Conversation {
	return domain.Conversation{
		ConversationID: m.ConversationID,
		CompanyID:      m.CompanyID,
		UserID:         m.UserID,
		Title:          m.Title,
		Summary:        m.Summary,
		Topics:         m.Topics,
		CreatedAt:      m.CreatedAt,
		LastUpdatedAt:  m.LastUpdatedAt,
	}
}

// ToDomainMessage converts a messages table row to the domain form.
func ToDomainMessage(m models.Message) domain.Message {
	return domain.Message{
		MessageID:      m.MessageID,
		ConversationID: m.ConversationID,
		Role:           domain.MessageRole(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

// ToDomainReceipt converts a receipts table row to the domain form.
func ToDomainReceipt(m models.Receipt) domain.Receipt {
	return domain.Receipt{
		ReceiptID:   m.ReceiptID,
		CompanyID:   m.CompanyID,
		ObjectKey:   m.ObjectKey,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		UploadedBy:  m.UploadedBy,
		CreatedAt:   m.CreatedAt,
	}
}
