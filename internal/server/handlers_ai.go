package server

import (
	"net/http"
)

func (s *Server) handleAIChat(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Message string `json:"message"`
	}
	if err := decode(r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	reply, err := s.coach.Chat(r.Context(), UserID(r), in.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func (s *Server) handleAIGenerateWorkout(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Prompt        string `json:"prompt"`
		SaveToLibrary bool   `json:"save_to_library"`
	}
	if err := decode(r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.coach.GenerateWorkout(r.Context(), UserID(r), in.Prompt, in.SaveToLibrary)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAIAnalyzeProgress(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.coach.AnalyzeProgress(r.Context(), UserID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}

func (s *Server) handleAIAsk(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Question string `json:"question"`
	}
	if err := decode(r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	answer, err := s.coach.Ask(r.Context(), UserID(r), in.Question)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
