package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"statdesign/api"
	"statdesign/app/sweep"
	"statdesign/internal/errors"
)

// statusFor maps the error taxonomy onto HTTP statuses: rejected
// input is the caller's fault, an infeasible design is semantically
// valid but unsatisfiable, and a missing backend is an operational
// condition.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeExactUnsupported:
		return http.StatusBadRequest
	case errors.CodeInfeasible:
		return http.StatusUnprocessableEntity
	case errors.CodeBackendUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

func bindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  errors.CodeInvalidInput,
		})
		return false
	}
	return true
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleNTwoProp(c *gin.Context) {
	var params api.TwoPropParams
	if !bindJSON(c, &params) {
		return
	}
	if params.ExactCeiling == 0 {
		params.ExactCeiling = s.cfg.Solver.ExactCeiling
	}
	n1, n2, err := api.NTwoProp(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"n1": n1, "n2": n2, "n_total": n1 + n2})
}

func (s *Server) handleNOneSampleProp(c *gin.Context) {
	var params api.OneSamplePropParams
	if !bindJSON(c, &params) {
		return
	}
	if params.ExactCeiling == 0 {
		params.ExactCeiling = s.cfg.Solver.ExactCeiling
	}
	n, err := api.NOneSampleProp(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"n": n})
}

func (s *Server) handleNMean(c *gin.Context) {
	var params api.MeanParams
	if !bindJSON(c, &params) {
		return
	}
	n1, n2, err := api.NMean(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"n1": n1, "n2": n2, "n_total": n1 + n2})
}

func (s *Server) handleNOneSampleMean(c *gin.Context) {
	var params api.OneSampleMeanParams
	if !bindJSON(c, &params) {
		return
	}
	n, err := api.NOneSampleMean(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"n": n})
}

func (s *Server) handleNPaired(c *gin.Context) {
	var params api.PairedParams
	if !bindJSON(c, &params) {
		return
	}
	n, err := api.NPaired(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"n_pairs": n})
}

func (s *Server) handleNAnova(c *gin.Context) {
	var params api.AnovaParams
	if !bindJSON(c, &params) {
		return
	}
	n, err := api.NAnova(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"n_total": n})
}

func (s *Server) handleEventsLogrank(c *gin.Context) {
	var params api.LogrankParams
	if !bindJSON(c, &params) {
		return
	}
	events, err := api.RequiredEventsLogrank(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (s *Server) handleEventsCox(c *gin.Context) {
	var params api.CoxParams
	if !bindJSON(c, &params) {
		return
	}
	events, err := api.RequiredEventsCox(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (s *Server) handleEventsToN(c *gin.Context) {
	var params api.EventsToNParams
	if !bindJSON(c, &params) {
		return
	}
	nTotal, nExp, nCtrl, err := api.EventsToNExponential(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"n_total": nTotal, "n_exp": nExp, "n_ctrl": nCtrl})
}

func (s *Server) handlePowerLogrank(c *gin.Context) {
	var params api.PowerLogrankParams
	if !bindJSON(c, &params) {
		return
	}
	power, err := api.PowerLogrankFromN(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"power": power})
}

type alphaAdjustRequest struct {
	M      int              `json:"m"`
	Alpha  float64          `json:"alpha"`
	Method api.AdjustMethod `json:"method"`
}

func (s *Server) handleAlphaAdjust(c *gin.Context) {
	var req alphaAdjustRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Method == "" {
		req.Method = api.Bonferroni
	}
	adjusted, err := api.AlphaAdjust(req.M, req.Alpha, req.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alpha_adjusted": adjusted})
}

func (s *Server) handleBHThresholds(c *gin.Context) {
	var req alphaAdjustRequest
	if !bindJSON(c, &req) {
		return
	}
	thresholds, err := api.BHThresholds(req.M, req.Alpha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"thresholds": thresholds})
}

func (s *Server) handleSweep(c *gin.Context) {
	var req sweep.Request
	if !bindJSON(c, &req) {
		return
	}
	result, err := s.sweeps.Run(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
