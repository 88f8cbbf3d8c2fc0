package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/ashwch/bol/internal/intent"
	"github.com/ashwch/bol/internal/journal"
	"github.com/ashwch/bol/internal/session"
)

// VoiceFrame is one text frame sent by the browser after speech recognition.
// CurrentPath is optional; when omitted the connection's session supplies it.
type VoiceFrame struct {
	Transcript  string `json:"transcript"`
	CurrentPath string `json:"currentPath,omitempty"`
	Locale      string `json:"locale,omitempty"`
}

// VoiceReply is the resolved result plus the page the session moved to.
type VoiceReply struct {
	intent.Result
	Path string `json:"path"`
}

type voiceError struct {
	Error string `json:"error"`
}

func (s *Server) handleVoice(c *websocket.Conn) {
	sess := session.New(c.Query("path", "/"))
	sessionID := fmt.Sprintf("ws-%d", s.sessions.Add(1))

	s.metrics.sockets.Inc()
	defer s.metrics.sockets.Dec()
	s.logger.Info("voice session opened", zap.String("session", sessionID), zap.String("path", sess.Path()))
	defer s.logger.Info("voice session closed", zap.String("session", sessionID))

	for {
		messageType, payload, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("voice session read failed", zap.String("session", sessionID), zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, s.voiceReply(sess, sessionID, payload)); err != nil {
			s.logger.Warn("voice session write failed", zap.String("session", sessionID), zap.Error(err))
			return
		}
	}
}

// voiceReply answers a single frame. It never fails: malformed frames get an
// error frame and the socket stays open.
func (s *Server) voiceReply(sess *session.Session, sessionID string, payload []byte) []byte {
	var frame VoiceFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		return mustMarshal(voiceError{Error: "frame must be JSON with a transcript field"})
	}
	if strings.TrimSpace(frame.Transcript) == "" {
		return mustMarshal(voiceError{Error: "transcript cannot be empty"})
	}
	if path := strings.TrimSpace(frame.CurrentPath); path != "" {
		sess.Visit(path)
	}

	result := s.resolve(journal.SourceWebSocket, sessionID, frame.Transcript, sess.Path(), frame.Locale)
	return mustMarshal(VoiceReply{Result: result, Path: sess.Apply(result)})
}

func mustMarshal(v any) []byte {
	encoded, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"error":"could not encode reply"}`)
	}
	return encoded
}
