package server

import (
	"fmt"
	"log"

	"github.com/caringsparks/spark/internal/common"
	"github.com/caringsparks/spark/internal/templates"
)

// Notify mails the admin inbox. Sandbox mode just logs.
func (s *Server) Notify(subject, msg string) {
	log.Println(subject, msg)

	if s.Cfg.Sandbox || s.Cfg.MailClient() == nil || s.Cfg.Mail.AdminEmail == "" {
		return
	}

	email := templates.NotifyEmail.Render(map[string]interface{}{"msg": msg})
	resp, err := s.Cfg.MailClient().SendMessage(email, subject, s.Cfg.Mail.AdminEmail, "Admin", []string{"notify"})
	if err != nil || len(resp) != 1 || resp[0].RejectReason != "" {
		log.Println("Failed to mail admin!", subject, err)
	}
}

func (s *Server) Alert(msg string, err error) {
	log.Println(msg, err)
	s.Notify("Alert!", fmt.Sprintf("%s: %v", msg, err))
}

// respondEmail tells the campaign owner the influencer accepted or declined.
func respondEmail(s *Server, cmp *common.Campaign, a *common.Assignment) {
	s.Notify("Assignment response!", fmt.Sprintf("%s just %s the campaign %s", a.InfluencerId, a.Status, cmp.Name))

	if s.Cfg.Sandbox || s.Cfg.ReplyMailClient() == nil || cmp.OwnerEmail == "" {
		return
	}

	email := templates.ResponseEmail.Render(map[string]interface{}{
		"OwnerName":    cmp.OwnerName,
		"InfluencerId": a.InfluencerId,
		"Decision":     string(a.Status),
		"CampaignName": cmp.Name,
		"Message":      a.Message,
	})
	resp, err := s.Cfg.ReplyMailClient().SendMessage(email, fmt.Sprintf("Your campaign %s has a new response", cmp.Name), cmp.OwnerEmail, cmp.OwnerName, []string{"response"})
	if err != nil || len(resp) != 1 || resp[0].RejectReason != "" {
		s.Alert("Failed to mail owner about assignment response: "+a.Key(), err)
	}
}

// completionEmail tells the owner all deliverables are in and the influencer
// may now request payment.
func completionEmail(s *Server, cmp *common.Campaign, a *common.Assignment) {
	s.Notify("Assignment completed!", fmt.Sprintf("%s just completed the campaign %s", a.InfluencerId, cmp.Name))

	if s.Cfg.Sandbox || s.Cfg.ReplyMailClient() == nil || cmp.OwnerEmail == "" {
		return
	}

	email := templates.CompletionEmail.Render(map[string]interface{}{
		"OwnerName":    cmp.OwnerName,
		"InfluencerId": a.InfluencerId,
		"CampaignName": cmp.Name,
		"PostCount":    cmp.PostCount,
	})
	resp, err := s.Cfg.ReplyMailClient().SendMessage(email, fmt.Sprintf("All deliverables for %s have been submitted", cmp.Name), cmp.OwnerEmail, cmp.OwnerName, []string{"completion"})
	if err != nil || len(resp) != 1 || resp[0].RejectReason != "" {
		s.Alert("Failed to mail owner about completion: "+a.Key(), err)
	}
}

// reviewEmail notifies the counterparty of a new comment: brand comments go
// to the influencer, influencer comments to the owner.
func reviewEmail(s *Server, cmp *common.Campaign, a *common.Assignment, rev *common.Review) {
	if cmp == nil || s.Cfg.Sandbox || s.Cfg.ReplyMailClient() == nil {
		return
	}

	var to, toName string
	if rev.AuthorType == common.AuthorBrand {
		to, toName = a.InfluencerEmail, a.InfluencerId
	} else {
		to, toName = cmp.OwnerEmail, cmp.OwnerName
	}
	if to == "" {
		return
	}

	email := templates.ReviewEmail.Render(map[string]interface{}{
		"AuthorName":   rev.AuthorName,
		"CampaignName": cmp.Name,
		"Comment":      rev.Comment,
	})
	resp, err := s.Cfg.ReplyMailClient().SendMessage(email, fmt.Sprintf("New comment on your %s deliverables", cmp.Name), to, toName, []string{"review"})
	if err != nil || len(resp) != 1 || resp[0].RejectReason != "" {
		s.Alert("Failed to mail review notification: "+a.Key(), err)
	}
}

// overdueEmail reminds the influencer their deliverables are late.
func overdueEmail(s *Server, cmp *common.Campaign, a *common.Assignment) {
	if s.Cfg.Sandbox || s.Cfg.ReplyMailClient() == nil || a.InfluencerEmail == "" {
		return
	}

	email := templates.OverdueEmail.Render(map[string]interface{}{
		"CampaignName": cmp.Name,
		"DueDate":      common.GetDateFromTime(a.DueDate(cmp)),
	})
	resp, err := s.Cfg.ReplyMailClient().SendMessage(email, fmt.Sprintf("Your deliverables for %s are overdue", cmp.Name), a.InfluencerEmail, a.InfluencerId, []string{"overdue"})
	if err != nil || len(resp) != 1 || resp[0].RejectReason != "" {
		s.Alert("Failed to mail overdue reminder: "+a.Key(), err)
	}
}
