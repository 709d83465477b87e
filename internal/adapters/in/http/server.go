// Package http exposes the finalization workflow over REST. Handlers
// translate between wire payloads and commands; every state rule lives in
// the application and domain layers.
package http

import (
	"errors"
	"io"
	"net/http"

	"shipment/internal/core/application/usecases/commands"
	"shipment/internal/core/application/usecases/queries"
	"shipment/internal/core/domain/model/fulfillment"
	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/core/domain/model/quote"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// maxLabelUploadBytes caps the manual label upload.
const maxLabelUploadBytes = 10 << 20

// Server wires the HTTP routes to the command and query handlers.
type Server struct {
	openSessionHandler       commands.OpenSessionCommandHandler
	chooseFulfillmentHandler commands.ChooseFulfillmentCommandHandler
	setManualDetailsHandler  commands.SetManualDetailsCommandHandler
	queryRatesHandler        commands.QueryRatesCommandHandler
	selectRateHandler        commands.SelectRateCommandHandler
	purchaseLabelHandler     commands.PurchaseLabelCommandHandler
	retrieveLabelHandler     commands.RetrieveLabelCommandHandler
	acknowledgeHandler       commands.AcknowledgeManualDownloadCommandHandler
	cancelAutoCommitHandler  commands.CancelAutoCommitCommandHandler
	commitShipmentHandler    commands.CommitShipmentCommandHandler
	closeSessionHandler      commands.CloseSessionCommandHandler

	sessionStatusHandler queries.GetSessionStatusQueryHandler
}

// NewServer creates the HTTP server over the workflow handlers.
func NewServer(
	openSessionHandler commands.OpenSessionCommandHandler,
	chooseFulfillmentHandler commands.ChooseFulfillmentCommandHandler,
	setManualDetailsHandler commands.SetManualDetailsCommandHandler,
	queryRatesHandler commands.QueryRatesCommandHandler,
	selectRateHandler commands.SelectRateCommandHandler,
	purchaseLabelHandler commands.PurchaseLabelCommandHandler,
	retrieveLabelHandler commands.RetrieveLabelCommandHandler,
	acknowledgeHandler commands.AcknowledgeManualDownloadCommandHandler,
	cancelAutoCommitHandler commands.CancelAutoCommitCommandHandler,
	commitShipmentHandler commands.CommitShipmentCommandHandler,
	closeSessionHandler commands.CloseSessionCommandHandler,
	sessionStatusHandler queries.GetSessionStatusQueryHandler,
) *Server {
	return &Server{
		openSessionHandler:       openSessionHandler,
		chooseFulfillmentHandler: chooseFulfillmentHandler,
		setManualDetailsHandler:  setManualDetailsHandler,
		queryRatesHandler:        queryRatesHandler,
		selectRateHandler:        selectRateHandler,
		purchaseLabelHandler:     purchaseLabelHandler,
		retrieveLabelHandler:     retrieveLabelHandler,
		acknowledgeHandler:       acknowledgeHandler,
		cancelAutoCommitHandler:  cancelAutoCommitHandler,
		commitShipmentHandler:    commitShipmentHandler,
		closeSessionHandler:      closeSessionHandler,
		sessionStatusHandler:     sessionStatusHandler,
	}
}

// RegisterRoutes mounts the session routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1/sessions")
	api.POST("", s.OpenSession)
	api.GET("/:id", s.GetSessionStatus)
	api.DELETE("/:id", s.CloseSession)
	api.POST("/:id/fulfillment", s.ChooseFulfillment)
	api.PUT("/:id/manual-details", s.SetManualDetails)
	api.POST("/:id/rates/query", s.QueryRates)
	api.POST("/:id/rates/selection", s.SelectRate)
	api.POST("/:id/label", s.PurchaseLabel)
	api.POST("/:id/label/download", s.RetrieveLabel)
	api.POST("/:id/label/manual-download-ack", s.AcknowledgeManualDownload)
	api.DELETE("/:id/auto-commit", s.CancelAutoCommit)
	api.POST("/:id/commit", s.CommitShipment)
}

// OpenSession handles POST /api/v1/sessions.
func (s *Server) OpenSession(c echo.Context) error {
	var req OpenSessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	q, err := quoteFromRequest(req)
	if err != nil {
		return badRequest(c, "invalid quote: "+err.Error())
	}

	sessionID := kernel.NewUUID()
	cmd, err := commands.NewOpenSessionCommand(sessionID, q)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := s.openSessionHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, OpenSessionResponse{SessionID: sessionID.String()})
}

// GetSessionStatus handles GET /api/v1/sessions/:id.
func (s *Server) GetSessionStatus(c echo.Context) error {
	sessionID, err := sessionIDParam(c)
	if err != nil {
		return badRequest(c, "invalid session id")
	}

	query, err := queries.NewGetSessionStatusQuery(sessionID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	status, err := s.sessionStatusHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, SessionStatusResponse{
		SessionID:          status.SessionID.String(),
		Status:             status.Status,
		Kind:               status.Kind,
		SelectedRateID:     status.SelectedRateID,
		TrackingNumber:     status.TrackingNumber,
		ManualDownloadURL:  status.ManualDownloadURL,
		AutoCommitArmed:    status.AutoCommitArmed,
		RemainingSeconds:   status.RemainingSeconds,
		ShipmentID:         status.ShipmentID,
		CommitFailureCause: status.CommitFailureCause,
	})
}

// CloseSession handles DELETE /api/v1/sessions/:id.
func (s *Server) CloseSession(c echo.Context) error {
	sessionID, err := sessionIDParam(c)
	if err != nil {
		return badRequest(c, "invalid session id")
	}

	cmd, err := commands.NewCloseSessionCommand(sessionID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := s.closeSessionHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ChooseFulfillment handles POST /api/v1/sessions/:id/fulfillment.
func (s *Server) ChooseFulfillment(c echo.Context) error {
	sessionID, err := sessionIDParam(c)
	if err != nil {
		return badRequest(c, "invalid session id")
	}

	var req ChooseFulfillmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	var kind fulfillment.Kind
	switch req.Kind {
	case fulfillment.KindExternal.String():
		kind = fulfillment.KindExternal
	case fulfillment.KindAggregator.String():
		kind = fulfillment.KindAggregator
	default:
		return badRequest(c, "kind must be external or aggregator")
	}

	cmd, err := commands.NewChooseFulfillmentCommand(sessionID, kind)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := s.chooseFulfillmentHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SetManualDetails handles PUT /api/v1/sessions/:id/manual-details.
// Multipart: carrier, tracking_number, net_cost, currency fields plus the
// label document as the "label" file part.
func (s *Server) SetManualDetails(c echo.Context) error {
	sessionID, err := sessionIDParam(c)
	if err != nil {
		return badRequest(c, "invalid session id")
	}

	fileHeader, err := c.FormFile("label")
	if err != nil {
		return badRequest(c, "label file is required")
	}
	if fileHeader.Size > maxLabelUploadBytes {
		return badRequest(c, "label file is too large")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "cannot read label file")
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxLabelUploadBytes))
	if err != nil {
		return badRequest(c, "cannot read label file")
	}

	labelFile, err := fulfillment.NewLabelFile(
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		return badRequest(c, err.Error())
	}

	netCost, err := kernel.NewMoneyFromString(c.FormValue("net_cost"), c.FormValue("currency"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewSetManualDetailsCommand(
		sessionID,
		c.FormValue("carrier"),
		c.FormValue("tracking_number"),
		labelFile,
		netCost,
	)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := s.setManualDetailsHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// QueryRates handles POST /api/v1/sessions/:id/rates/query.
func (s *Server) QueryRates(c echo.Context) error {
	sessionID, err := sessionIDParam(c)
	if err != nil {
		return badRequest(c, "invalid session id")
	}

	cmd, err := commands.NewQueryRatesCommand(sessionID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	rates, err := s.queryRatesHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	response := QueryRatesResponse{Rates: make([]RatePayload, 0, len(rates))}
	for _, rate := range rates {
		response.Rates = append(response.Rates, RatePayload{
			ID:           rate.ID(),
			Carrier:      rate.Carrier(),
			ServiceName:  rate.ServiceName(),
			ShippingType: rate.ShippingType(),
			Total:        rate.Total().Amount().StringFixed(2),
			Currency:     rate.Total().Currency(),
		})
	}
	return c.JSON(http.StatusOK, response)
}

// SelectRate handles POST /api/v1/sessions/:id/rates/selection.
func (s *Server) SelectRate(c echo.Context) error {
	sessionID, err := sessionIDParam(c)
	if err != nil {
		return badRequest(c, "invalid session id")
	}

	var req SelectRateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	total, err := kernel.NewMoneyFromString(req.Total, req.Currency)
	if err != nil {
		return badRequest(c, err.Error())
	}
	rate, err := fulfillment.NewRate(req.ID, req.Carrier, req.ServiceName, req.ShippingType, total)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewSelectRateCommand(sessionID, rate)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := s.selectRateHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// PurchaseLabel handles POST /api/v1/sessions/:id/label.
func (s *Server) PurchaseLabel(c echo.Context) error {
	sessionID, err := sessionIDParam(c)
	if err != nil {
		return badRequest(c, "invalid session id")
	}

	var req PurchaseLabelRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cmd, err := commands.NewPurchaseLabelCommand(sessionID, req.Sender.toPort(), req.Recipient.toPort())
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := s.purchaseLabelHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// RetrieveLabel handles POST /api/v1/sessions/:id/label/download. When
// the retrieval budget runs out the session degrades to the
// manual-download fallback; that outcome is a 200 with the fallback URL
// in the session status, not an error.
func (s *Server) RetrieveLabel(c echo.Context) error {
	sessionID, err := sessionIDParam(c)
	if err != nil {
		return badRequest(c, "invalid session id")
	}

	cmd, err := commands.NewRetrieveLabelCommand(sessionID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := s.retrieveLabelHandler.Handle(c.Request().Context(), cmd); err != nil {
		if errors.Is(err, commands.ErrManualDownloadFallback) {
			return s.GetSessionStatus(c)
		}
		return respondError(c, err)
	}

	return s.GetSessionStatus(c)
}

// AcknowledgeManualDownload handles POST
// /api/v1/sessions/:id/label/manual-download-ack.
func (s *Server) AcknowledgeManualDownload(c echo.Context) error {
	sessionID, err := sessionIDParam(c)
	if err != nil {
		return badRequest(c, "invalid session id")
	}

	cmd, err := commands.NewAcknowledgeManualDownloadCommand(sessionID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := s.acknowledgeHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// CancelAutoCommit handles DELETE /api/v1/sessions/:id/auto-commit.
func (s *Server) CancelAutoCommit(c echo.Context) error {
	sessionID, err := sessionIDParam(c)
	if err != nil {
		return badRequest(c, "invalid session id")
	}

	cmd, err := commands.NewCancelAutoCommitCommand(sessionID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := s.cancelAutoCommitHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// CommitShipment handles POST /api/v1/sessions/:id/commit.
func (s *Server) CommitShipment(c echo.Context) error {
	sessionID, err := sessionIDParam(c)
	if err != nil {
		return badRequest(c, "invalid session id")
	}

	cmd, err := commands.NewCommitShipmentCommand(sessionID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := s.commitShipmentHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return s.GetSessionStatus(c)
}

func sessionIDParam(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param("id"))
}

func quoteFromRequest(req OpenSessionRequest) (*quote.Quote, error) {
	quoteID, err := kernel.UUIDFromString(req.QuoteID)
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return nil, err
	}
	destinationID, err := kernel.UUIDFromString(req.DestinationID)
	if err != nil {
		return nil, err
	}
	originZip, err := kernel.NewZipCode(req.OriginZip)
	if err != nil {
		return nil, err
	}
	destZip, err := kernel.NewZipCode(req.DestinationZip)
	if err != nil {
		return nil, err
	}
	parcel, err := parcelFromPayload(req.Parcel, req.Currency)
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoneyFromString(req.PriceWithTax, req.Currency)
	if err != nil {
		return nil, err
	}

	return quote.NewQuote(quoteID, customerID, destinationID, originZip, destZip, parcel, req.SelectedRateID, price)
}

func parcelFromPayload(p ParcelPayload, currency string) (quote.Parcel, error) {
	weight, err := decimal.NewFromString(p.WeightKg)
	if err != nil {
		return quote.Parcel{}, err
	}

	if p.HeightCm == nil && p.LengthCm == nil && p.WidthCm == nil && p.DeclaredValue == nil {
		return quote.NewParcel(weight)
	}

	height, err := optionalDecimal(p.HeightCm)
	if err != nil {
		return quote.Parcel{}, err
	}
	length, err := optionalDecimal(p.LengthCm)
	if err != nil {
		return quote.Parcel{}, err
	}
	width, err := optionalDecimal(p.WidthCm)
	if err != nil {
		return quote.Parcel{}, err
	}

	var declared *kernel.Money
	if p.DeclaredValue != nil {
		value, err := kernel.NewMoneyFromString(*p.DeclaredValue, currency)
		if err != nil {
			return quote.Parcel{}, err
		}
		declared = &value
	}

	return quote.NewParcelWithDimensions(weight, height, length, width, declared)
}

func optionalDecimal(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
