package webhook

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	pkgerror "github.com/rubikabot/ingestcore/pkg/error"
	"github.com/rubikabot/ingestcore/pkg/utils"
)

// Recovery renders any panic reaching a handler as a utils.ResponseData,
// using the panicking value's status/code when it implements
// pkgerror.GenericError and falling back to 500 otherwise. Adapted
// directly from ui/rest/middleware/recovery.go.
func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			if err := recover(); err != nil {
				res := utils.ResponseData{
					Status:  fiber.StatusInternalServerError,
					Code:    "INTERNAL_SERVER_ERROR",
					Message: fmt.Sprintf("%v", err),
				}

				logrus.Errorf("panic recovered in webhook middleware: %v", err)

				if generic, ok := err.(pkgerror.GenericError); ok {
					res.Status = generic.StatusCode()
					res.Code = generic.ErrCode()
					res.Message = generic.Error()
				}

				_ = ctx.Status(res.Status).JSON(res)
			}
		}()
		return ctx.Next()
	}
}
