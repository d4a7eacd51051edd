package http

import (
	"encoding/json"
	"testing"

	"github.com/pion/webrtc/v4"
)

// TestWebRTCNegotiationThroughRelay drives a real offer/answer exchange
// between two pion peer connections over the relay.
func TestWebRTCNegotiationThroughRelay(t *testing.T) {
	s := newTestServer(t, nil)

	a, aID := join(t, s, "call")
	b, bID := join(t, s, "call", aID)
	expectPeers(t, a, aID, bID)

	pcA, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		t.Fatalf("NewPeerConnection failed: %v", err)
	}
	defer pcA.Close()
	pcB, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		t.Fatalf("NewPeerConnection failed: %v", err)
	}
	defer pcB.Close()

	if _, err := pcA.CreateDataChannel("signal-test", nil); err != nil {
		t.Fatalf("CreateDataChannel failed: %v", err)
	}
	offer, err := pcA.CreateOffer(nil)
	if err != nil {
		t.Fatalf("CreateOffer failed: %v", err)
	}
	if err := pcA.SetLocalDescription(offer); err != nil {
		t.Fatalf("SetLocalDescription failed: %v", err)
	}

	if err := a.WriteJSON(map[string]any{"type": "offer", "to": bID, "sdp": offer}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	relayed := readMessage(t, b)
	if relayed.Type != "offer" || relayed.From != aID {
		t.Fatalf("relayed = %+v", relayed)
	}
	var remoteOffer webrtc.SessionDescription
	if err := json.Unmarshal(relayed.SDP, &remoteOffer); err != nil {
		t.Fatalf("decode relayed offer: %v", err)
	}
	if remoteOffer.SDP != offer.SDP {
		t.Fatal("offer SDP changed in transit")
	}

	if err := pcB.SetRemoteDescription(remoteOffer); err != nil {
		t.Fatalf("SetRemoteDescription(offer) failed: %v", err)
	}
	answer, err := pcB.CreateAnswer(nil)
	if err != nil {
		t.Fatalf("CreateAnswer failed: %v", err)
	}
	if err := pcB.SetLocalDescription(answer); err != nil {
		t.Fatalf("SetLocalDescription failed: %v", err)
	}

	if err := b.WriteJSON(map[string]any{"type": "answer", "to": relayed.From, "sdp": answer}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	reply := readMessage(t, a)
	if reply.Type != "answer" || reply.From != bID {
		t.Fatalf("reply = %+v", reply)
	}
	var remoteAnswer webrtc.SessionDescription
	if err := json.Unmarshal(reply.SDP, &remoteAnswer); err != nil {
		t.Fatalf("decode relayed answer: %v", err)
	}
	if err := pcA.SetRemoteDescription(remoteAnswer); err != nil {
		t.Fatalf("SetRemoteDescription(answer) failed: %v", err)
	}

	if pcA.SignalingState() != webrtc.SignalingStateStable {
		t.Errorf("A signaling state = %s, want stable", pcA.SignalingState())
	}
	if pcB.SignalingState() != webrtc.SignalingStateStable {
		t.Errorf("B signaling state = %s, want stable", pcB.SignalingState())
	}
}
