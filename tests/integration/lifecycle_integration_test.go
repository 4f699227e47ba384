package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/purevia/purevia-water-api/config"
	"github.com/purevia/purevia-water-api/controllers"
	"github.com/purevia/purevia-water-api/models"
	"github.com/purevia/purevia-water-api/services"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// LifecycleIntegrationTestSuite drives the full order lifecycle through
// the HTTP surface, reading OTP codes out of the captured mails the way
// a customer would
type LifecycleIntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB
	email  *services.MockEmailService
	ledger *services.MockLedgerService
}

// SetupSuite runs once before all tests
func (suite *LifecycleIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")
}

// SetupTest runs before each test
func (suite *LifecycleIntegrationTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.NoError(err)
	suite.db = db

	err = db.AutoMigrate(&models.Customer{}, &models.Order{})
	suite.NoError(err)
	config.SetDB(db)
	config.SetConfig(&config.Config{
		GoEnv:      "test",
		AdminEmail: "admin@purevia.example",
	})

	suite.email = services.NewMockEmailService()
	suite.ledger = services.NewMockLedgerService()
	services.InitLifecycleService(services.NewMemoryOTPService(), suite.email, suite.ledger)

	router := gin.New()
	router.POST("/send-otp", controllers.SendOTP)
	router.POST("/order", controllers.PlaceOrder)
	router.POST("/send-delivery-otp", controllers.SendDeliveryOTP)
	router.POST("/verify-delivery-otp", controllers.VerifyDeliveryOTP)
	router.POST("/notify-delivery-start", controllers.NotifyDeliveryStart)
	router.POST("/send-cancel-otp", controllers.SendCancelOTP)
	router.POST("/verify-cancel-otp", controllers.VerifyCancelOTP)
	router.POST("/delete-order", controllers.DeleteOrder)
	router.POST("/send-delivered-mail", controllers.SendDeliveredMail)
	router.POST("/send-review-mail", controllers.SendReviewMail)
	router.POST("/send-out-delivery-mail", controllers.SendOutDeliveryMail)
	suite.router = router
}

func (suite *LifecycleIntegrationTestSuite) post(path string, body map[string]interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	payload, err := json.Marshal(body)
	suite.NoError(err)

	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

var otpPattern = regexp.MustCompile(`(?s)<h1>\s*(\d+)\s*</h1>|Your OTP is (\d+)`)

// otpFromMail extracts the passcode from the most recent mail to an address
func (suite *LifecycleIntegrationTestSuite) otpFromMail(to string) string {
	mails := suite.email.SentMails()
	for i := len(mails) - 1; i >= 0; i-- {
		if mails[i].To != to {
			continue
		}
		if m := otpPattern.FindStringSubmatch(mails[i].HTML); m != nil {
			if m[1] != "" {
				return m[1]
			}
			return m[2]
		}
	}
	suite.FailNow("no OTP mail found for " + to)
	return ""
}

func (suite *LifecycleIntegrationTestSuite) placeOrder(email, name string) {
	w, response := suite.post("/send-otp", map[string]interface{}{"email": email, "name": name})
	suite.Equal(http.StatusOK, w.Code)
	suite.True(response["success"].(bool))

	w, response = suite.post("/order", map[string]interface{}{
		"email":         email,
		"otp":           suite.otpFromMail(email),
		"name":          name,
		"mobile":        "9999999999",
		"items":         []map[string]interface{}{{"item": "20L can", "qty": 2}},
		"totalPrice":    240,
		"delivery":      "home",
		"address":       "12 Lake Rd",
		"paymentMethod": "COD",
	})
	suite.Equal(http.StatusOK, w.Code)
	suite.True(response["success"].(bool))
}

// TestOrderToDeliveryFlow walks place → out-for-delivery → delivery OTP →
// delivered → review request
func (suite *LifecycleIntegrationTestSuite) TestOrderToDeliveryFlow() {
	suite.placeOrder("alice@x.com", "Alice")

	// Placed: one ACTIVE order locally, one confirmed row remotely
	var customer models.Customer
	suite.NoError(suite.db.Preload("Orders").Where("email = ?", "alice@x.com").First(&customer).Error)
	suite.Len(customer.Orders, 1)
	suite.Equal(models.StatusActive, customer.Orders[0].Status)
	suite.False(customer.Orders[0].Delivered)

	rows := suite.ledger.RowsFor("alice@x.com")
	suite.Len(rows, 1)
	suite.Equal("YES", rows[0][6])
	suite.Equal("NO", rows[0][7])
	suite.Equal("ACTIVE", rows[0][8])

	// Out for delivery
	w, response := suite.post("/send-out-delivery-mail", map[string]interface{}{
		"email": "alice@x.com", "name": "Alice",
	})
	suite.Equal(http.StatusOK, w.Code)
	suite.True(response["success"].(bool))

	// Delivery person arrives; admin is notified, customer gets the OTP
	w, response = suite.post("/notify-delivery-start", map[string]interface{}{
		"email": "alice@x.com", "name": "Alice",
	})
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Admin notified & delivery OTP sent", response["message"])

	// Customer shares the OTP with the delivery person
	w, response = suite.post("/verify-delivery-otp", map[string]interface{}{
		"email": "alice@x.com",
		"otp":   suite.otpFromMail("alice@x.com"),
		"name":  "Alice",
	})
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Delivery confirmed successfully", response["message"])

	var order models.Order
	suite.NoError(suite.db.First(&order).Error)
	suite.True(order.Delivered)
	suite.Equal(models.StatusDelivered, order.Status)
	suite.Equal("YES", suite.ledger.RowsFor("alice@x.com")[0][7])

	// Review request; replies land with the admin
	w, response = suite.post("/send-review-mail", map[string]interface{}{
		"email": "alice@x.com", "name": "Alice",
	})
	suite.Equal(http.StatusOK, w.Code)
	mails := suite.email.SentMails()
	suite.Equal("admin@purevia.example", mails[len(mails)-1].ReplyTo)
}

// TestCancelFlow walks place → cancel OTP → pending list → cancellation,
// then shows the cancelled order can never be delivered
func (suite *LifecycleIntegrationTestSuite) TestCancelFlow() {
	suite.placeOrder("bob@x.com", "Bob")

	w, response := suite.post("/send-cancel-otp", map[string]interface{}{"email": "bob@x.com"})
	suite.Equal(http.StatusOK, w.Code)

	w, response = suite.post("/verify-cancel-otp", map[string]interface{}{
		"email": "bob@x.com",
		"otp":   suite.otpFromMail("bob@x.com"),
	})
	suite.Equal(http.StatusOK, w.Code)
	orders := response["orders"].([]interface{})
	suite.Len(orders, 1)

	w, response = suite.post("/delete-order", map[string]interface{}{
		"email": "bob@x.com", "index": 0,
	})
	suite.Equal(http.StatusOK, w.Code)
	suite.True(response["success"].(bool))

	var order models.Order
	suite.NoError(suite.db.First(&order).Error)
	suite.Equal(models.StatusCancelled, order.Status)
	suite.NotNil(order.CancelledAt)
	suite.Equal("CANCELLED", suite.ledger.RowsFor("bob@x.com")[0][8])

	// Delivery of the cancelled order must fail: the only ledger row is
	// cancelled and no pending order remains
	w, _ = suite.post("/send-delivery-otp", map[string]interface{}{
		"email": "bob@x.com", "name": "Bob",
	})
	suite.Equal(http.StatusOK, w.Code)

	w, response = suite.post("/verify-delivery-otp", map[string]interface{}{
		"email": "bob@x.com",
		"otp":   suite.otpFromMail("bob@x.com"),
		"name":  "Bob",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.False(response["success"].(bool))

	// And the local order is untouched by the failed attempt
	suite.NoError(suite.db.First(&order).Error)
	suite.Equal(models.StatusCancelled, order.Status)
	suite.False(order.Delivered)
}

// TestOTPReplayRejected shows a consumed order OTP cannot be replayed
func (suite *LifecycleIntegrationTestSuite) TestOTPReplayRejected() {
	suite.placeOrder("carol@x.com", "Carol")
	code := suite.otpFromMail("carol@x.com")

	w, response := suite.post("/order", map[string]interface{}{
		"email":         "carol@x.com",
		"otp":           code,
		"name":          "Carol",
		"items":         []map[string]interface{}{{"item": "20L can", "qty": 1}},
		"totalPrice":    120,
		"delivery":      "home",
		"address":       "12 Lake Rd",
		"paymentMethod": "COD",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("OTP not sent", response["msg"])

	var count int64
	suite.db.Model(&models.Order{}).Count(&count)
	suite.Equal(int64(1), count)
}

func TestLifecycleIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(LifecycleIntegrationTestSuite))
}
