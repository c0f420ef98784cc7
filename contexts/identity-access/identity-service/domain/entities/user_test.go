package entities

import (
	"testing"

	"caregate/internal/shared/authz"
)

func TestNormalizePayloadKeepsMatchingPayloadOnly(t *testing.T) {
	medical := &MedicalInfo{BloodType: "O+"}
	provider := &ProviderInfo{Specialization: "cardiology"}

	patient := User{Role: authz.RolePatient, Medical: medical, Provider: provider}
	patient.NormalizePayload()
	if patient.Medical == nil {
		t.Fatal("patient lost medical payload")
	}
	if patient.Provider != nil {
		t.Fatal("patient kept provider payload")
	}

	doc := User{Role: authz.RoleProvider, Medical: medical, Provider: provider}
	doc.NormalizePayload()
	if doc.Provider == nil {
		t.Fatal("provider lost provider payload")
	}
	if doc.Medical != nil {
		t.Fatal("provider kept medical payload")
	}

	admin := User{Role: authz.RoleAdmin, Medical: medical, Provider: provider}
	admin.NormalizePayload()
	if admin.Medical != nil || admin.Provider != nil {
		t.Fatal("admin kept role-specific payload")
	}
}

func TestValidEmail(t *testing.T) {
	if !ValidEmail("adaeze@example.com") {
		t.Fatal("expected valid email")
	}
	for _, email := range []string{"", "no-at-sign", "a@b", "spaces in@example.com"} {
		if ValidEmail(email) {
			t.Fatalf("expected %q invalid", email)
		}
	}
}

func TestValidPhone(t *testing.T) {
	for _, phone := range []string{"08012345678", "+2348012345678", "2347012345678"} {
		if !ValidPhone(phone) {
			t.Fatalf("expected %q valid", phone)
		}
	}
	for _, phone := range []string{"", "12345", "0601234567"} {
		if ValidPhone(phone) {
			t.Fatalf("expected %q invalid", phone)
		}
	}
}

func TestMedicalInfoBloodType(t *testing.T) {
	if !(MedicalInfo{BloodType: "AB-"}).Valid() {
		t.Fatal("expected AB- valid")
	}
	if (MedicalInfo{BloodType: "C+"}).Valid() {
		t.Fatal("expected C+ invalid")
	}
	if !(MedicalInfo{}).Valid() {
		t.Fatal("expected empty blood type valid")
	}
}
