// Package ws exposes the spotting engine over a websocket: one decoder per
// connection, one JSON message per audio frame in either direction.
package ws

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	kwspot "github.com/ieee0824/kwspot-go"
	"github.com/ieee0824/kwspot-go/fst"
	"github.com/ieee0824/kwspot-go/internal/config"
	"github.com/ieee0824/kwspot-go/symbol"
)

// FrameRequest is one client message: a frame of linear-domain per-phone
// scores, or a reset request.
type FrameRequest struct {
	Scores []float64 `json:"scores,omitempty"`
	Reset  bool      `json:"reset,omitempty"`
}

// FrameResponse is the per-frame decision sent back to the client.
type FrameResponse struct {
	Frame      int     `json:"frame"`
	Spotted    bool    `json:"spotted"`
	Confidence float64 `json:"confidence"`
	Keyword    int     `json:"keyword"`
	Name       string  `json:"name,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Server handles websocket spotting sessions. The transducer and phone
// table are shared read-only across connections; each connection gets its
// own decoder.
type Server struct {
	cfg      config.Config
	fst      *fst.Fst
	fillers  *symbol.Table
	keywords *symbol.Table // keyword id -> name, optional
	upgrader websocket.Upgrader
}

// NewServer creates a Server over shared immutable models. keywords may be
// nil; then responses carry only numeric keyword ids.
func NewServer(cfg config.Config, f *fst.Fst, fillers, keywords *symbol.Table) *Server {
	return &Server{
		cfg:      cfg,
		fst:      f,
		fillers:  fillers,
		keywords: keywords,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024 * 4,
			WriteBufferSize: 1024 * 4,
		},
	}
}

// Handle upgrades the request and runs one spotting session until the
// client disconnects.
func (s *Server) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	session := uuid.NewString()
	logger := log.With().Str("session", session).Logger()
	logger.Info().Msg("spotting session started")
	defer logger.Info().Msg("spotting session closed")

	engine := kwspot.NewFromModels(s.fst, s.fillers,
		kwspot.WithSpotThreshold(s.cfg.SpotThreshold),
		kwspot.WithMinKeywordFrames(s.cfg.MinKeywordFrames),
		kwspot.WithMinFramesForLastState(s.cfg.MinFramesForLastState),
	)

	frame := 0
	for {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		var req FrameRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn().Err(err).Msg("read failed")
			}
			return
		}

		if req.Reset {
			engine.Reset()
			frame = 0
			continue
		}

		res, err := engine.ProcessFrame(req.Scores)
		resp := FrameResponse{Frame: frame}
		if err != nil {
			resp.Error = err.Error()
			logger.Warn().Err(err).Int("frame", frame).Msg("bad frame")
		} else {
			resp.Spotted = res.Spotted
			resp.Confidence = res.Confidence
			resp.Keyword = res.Keyword
			if res.Spotted && s.keywords != nil {
				resp.Name = s.keywords.Name(res.Keyword)
			}
			if res.Spotted {
				logger.Info().Int("frame", frame).Int("keyword", res.Keyword).
					Float64("confidence", res.Confidence).Msg("keyword spotted")
			}
		}
		if werr := conn.WriteJSON(resp); werr != nil {
			logger.Warn().Err(werr).Msg("write failed")
			return
		}
		if err == nil {
			frame++
		}
	}
}
