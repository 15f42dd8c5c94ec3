package domain

import "testing"

func TestStatusIDToProspectStatus(t *testing.T) {
	cases := []struct {
		in   StatusID
		want ProspectStatus
	}{
		{StatusIDActive, ProspectQualified},
		{StatusIDInactive, ProspectLost},
		{StatusIDPending, ProspectNew},
		{StatusID("ANYTHING_ELSE"), ProspectNew},
	}
	for _, c := range cases {
		if got := StatusIDToProspectStatus(c.in); got != c.want {
			t.Errorf("StatusIDToProspectStatus(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestProspectStatusToStatusID(t *testing.T) {
	cases := []struct {
		in   ProspectStatus
		want StatusID
	}{
		{ProspectQualified, StatusIDActive},
		{ProspectProposalSent, StatusIDActive},
		{ProspectNegotiation, StatusIDActive},
		{ProspectConverted, StatusIDActive},
		{ProspectLost, StatusIDInactive},
		{ProspectNew, StatusIDPending},
		{ProspectContacted, StatusIDPending},
	}
	for _, c := range cases {
		if got := ProspectStatusToStatusID(c.in); got != c.want {
			t.Errorf("ProspectStatusToStatusID(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestMappingIsLossy(t *testing.T) {
	// CONTACTED survives one round trip as NEW, not CONTACTED. The
	// flattening is intentional; this pins it down.
	round := StatusIDToProspectStatus(ProspectStatusToStatusID(ProspectContacted))
	if round != ProspectNew {
		t.Errorf("round trip of CONTACTED = %s, want NEW", round)
	}
}

func TestProformaGuards(t *testing.T) {
	if !CanDeleteProforma(ProformaDraft) {
		t.Error("draft should be deletable")
	}
	for _, s := range []ProformaStatus{ProformaSent, ProformaAccepted, ProformaRejected, ProformaExpired, ProformaConverted} {
		if CanDeleteProforma(s) {
			t.Errorf("%s should not be deletable", s)
		}
	}

	if !CanConvertProforma(ProformaAccepted) {
		t.Error("accepted should be convertible")
	}
	for _, s := range []ProformaStatus{ProformaDraft, ProformaSent, ProformaRejected, ProformaExpired, ProformaConverted} {
		if CanConvertProforma(s) {
			t.Errorf("%s should not be convertible", s)
		}
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleClient, RoleAdmin, RoleTechnician, RoleCommercial, RoleAccountant, RoleSupervisor, RoleLegal} {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if Role("SUPERUSER").Valid() {
		t.Error("unknown role should be invalid")
	}
}
