package rfipdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() Data {
	return Data{
		ClientName:     "Acme Corp",
		SolutionName:   "Risk Platform",
		RFIDescription: "RFI Response",
		PreparedFor:    "Acme Procurement",
		DatePrepared:   "2026-07-31",
		Company:        Company{Name: "Vendor Inc", ContactEmail: "sales@vendor.example"},
		RevisionHistory: []Revision{
			{Version: "1.0", Date: "2026-07-01", Author: "A. Author", Description: "Initial draft"},
		},
		ExecutiveSummary: ExecutiveSummary{Paragraphs: []string{"We propose a comprehensive risk management solution."}},
		CompanyProfile:   CompanyProfile{Description: "Founded in 2001.", Credentials: []string{"ISO 27001"}},
		SolutionProfile:  SolutionProfile{Overview: "A modular platform.", Features: []Feature{{Name: "SSO", Description: "SAML 2.0 support"}}},
		TechnicalInformation: TechnicalInformation{Content: "Deployed on Kubernetes."},
		Appendices:       []Appendix{{Label: "A", Filename: "architecture.pdf"}},
		Copyright:        Copyright{Year: "2026", CompanyName: "Vendor Inc"},
	}
}

func TestBuild_ProducesNonEmptyPDFBytes(t *testing.T) {
	out, err := Build(sampleData())
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestBuild_NoNetworkCallsNoPanicOnEmptyData(t *testing.T) {
	out, err := Build(Data{})
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
}

func TestRender_TracksSectionPagesOnFirstPass(t *testing.T) {
	data := sampleData()
	sectionPages := map[string]int{}
	var discard bytes.Buffer
	err := render(data, sectionPages, &discard, false)
	require.NoError(t, err)
	assert.Contains(t, sectionPages, "Company Profile & Credentials")
	assert.Greater(t, sectionPages["Copyright"], sectionPages["Executive Summary"])
}
