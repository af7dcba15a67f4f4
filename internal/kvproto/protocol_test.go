package kvproto

import (
	"bytes"
	"testing"
)

func TestRoundTrip_Requests(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	want := []Request{
		NewGetRequest("k1"),
		NewSetRequest("k2", "v2"),
		NewRemoveRequest("k3"),
	}
	for _, r := range want {
		if err := enc.EncodeRequest(r); err != nil {
			t.Fatalf("EncodeRequest: %v", err)
		}
	}

	dec := NewDecoder(&buf)
	for i, w := range want {
		got, err := dec.DecodeRequest()
		if err != nil {
			t.Fatalf("DecodeRequest %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("request %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestRoundTrip_Responses(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	want := []Response{
		OkResponse(),
		OkValueResponse("v", true),
		OkValueResponse("", false),
		ErrResponse("key not found"),
	}
	for _, r := range want {
		if err := enc.EncodeResponse(r); err != nil {
			t.Fatalf("EncodeResponse: %v", err)
		}
	}

	dec := NewDecoder(&buf)
	for i, w := range want {
		got, err := dec.DecodeResponse()
		if err != nil {
			t.Fatalf("DecodeResponse %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("response %d = %+v, want %+v", i, got, w)
		}
	}
}
