package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDeliverSigned(t *testing.T) {
	var (
		gotBody []byte
		gotSig  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get(SignatureHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	event := NewReportWritten("2024-03-31_2sai", ReportWritten{
		Variant: "2sai", AsOfDate: "2024-03-31", Records: 40, Path: "report/2024-03-31_2sai.json",
	})
	if err := Deliver(context.Background(), srv.URL, "s3cret", event); err != nil {
		t.Fatalf("Deliver unexpected error: %v", err)
	}

	if gotSig != Sign("s3cret", gotBody) {
		t.Errorf("signature %q does not match body", gotSig)
	}

	var decoded struct {
		Type      string        `json:"type"`
		ReportKey string        `json:"report_key"`
		Data      ReportWritten `json:"data"`
	}
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Type != EventReportWritten || decoded.ReportKey != "2024-03-31_2sai" || decoded.Data.Records != 40 {
		t.Errorf("decoded event = %+v", decoded)
	}
}

func TestDeliverUnsigned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(SignatureHeader) != "" {
			t.Error("signature sent without a secret")
		}
	}))
	defer srv.Close()

	if err := Deliver(context.Background(), srv.URL, "", NewReportWritten("2024-03-31", ReportWritten{})); err != nil {
		t.Fatalf("Deliver unexpected error: %v", err)
	}
}

func TestDeliverErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := Deliver(context.Background(), srv.URL, "", NewReportWritten("2024-03-31", ReportWritten{})); err == nil {
		t.Error("expected an error for a 500 response")
	}
}
