package respond

import "github.com/gofiber/fiber/v2"

// Envelope is the response shape every endpoint returns:
// {"status":"success"|"error","message":...,"data":...}.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(Envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error writes the error envelope. Handler code normally returns
// fiber.NewError and lets the app error handler call this.
func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(Envelope{
		Status:  "error",
		Message: message,
	})
}
