package handler

import (
	"encoding/json"
	"testing"

	"github.com/clientxce/Pick-a-Padel/internal/model"
)

func strPtr(s string) *string { return &s }

func TestHoldRequestContact(t *testing.T) {
	t.Run("body carries the contact fields", func(t *testing.T) {
		body := `{
			"court_id": "7b1c3a84-1f6c-4a17-9a2e-0d6c1f2b9a01",
			"date": "2025-06-10",
			"time_slot": "18:00",
			"user_email": "friend@example.com",
			"user_name": "Friend",
			"user_phone": "+911234567890"
		}`
		var req holdReq
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if req.UserEmail != "friend@example.com" {
			t.Errorf("UserEmail = %q; the booking email is the form's, not the account's", req.UserEmail)
		}
		if req.UserName == nil || *req.UserName != "Friend" {
			t.Errorf("UserName = %v", req.UserName)
		}
		if req.UserPhone == nil || *req.UserPhone != "+911234567890" {
			t.Errorf("UserPhone = %v", req.UserPhone)
		}
	})

	t.Run("request fields win over the account", func(t *testing.T) {
		req := holdReq{
			UserEmail: "friend@example.com",
			UserName:  strPtr("Friend"),
			UserPhone: strPtr("+911111111111"),
		}
		account := model.User{
			Email: "owner@example.com",
			Name:  strPtr("Owner"),
			Phone: strPtr("+922222222222"),
		}
		name, phone := contactFor(req, account)
		if name == nil || *name != "Friend" {
			t.Errorf("name = %v, want request value", name)
		}
		if phone == nil || *phone != "+911111111111" {
			t.Errorf("phone = %v, want request value", phone)
		}
	})

	t.Run("account fills in blanks", func(t *testing.T) {
		req := holdReq{UserEmail: "friend@example.com"}
		account := model.User{
			Email: "owner@example.com",
			Name:  strPtr("Owner"),
			Phone: strPtr("+922222222222"),
		}
		name, phone := contactFor(req, account)
		if name == nil || *name != "Owner" {
			t.Errorf("name = %v, want account fallback", name)
		}
		if phone == nil || *phone != "+922222222222" {
			t.Errorf("phone = %v, want account fallback", phone)
		}
	})

	t.Run("nothing anywhere stays nil", func(t *testing.T) {
		name, phone := contactFor(holdReq{UserEmail: "friend@example.com"}, model.User{Email: "owner@example.com"})
		if name != nil || phone != nil {
			t.Errorf("name = %v, phone = %v, want nil", name, phone)
		}
	})
}
