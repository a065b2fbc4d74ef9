package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aurifex/jewelry_backend/config"
	"github.com/aurifex/jewelry_backend/models"
	"github.com/aurifex/jewelry_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
)

// MySQL duplicate entry, raised by unique indexes racing past ValidateUnique.
const mysqlErrDuplicateEntry = 1062

const storeIdHeader = "X-Store-Id"

// storeId pulls the tenant scope from the request header. Every handler
// resolves it explicitly; there is no ambient tenant in the context.
func storeId(c *gin.Context) (string, bool) {
	id := c.Request.Header.Get(storeIdHeader)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": storeIdHeader + " header is required"})
		return "", false
	}
	return id, true
}

func idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors onto HTTP statuses. Lifecycle conflicts are
// 409, unmet preconditions 422, unknown records 404, bad input 400; anything
// else is logged and returned as a 500.
func respondError(c *gin.Context, moduleName string, functionName string, err error) {
	var invalidTransition *models.InvalidTransitionError
	var missingPrerequisite *models.MissingPrerequisiteError
	var alreadyProcessed *models.AlreadyProcessedError
	var invalidValue *models.InvalidValueError
	var validationErrors validator.ValidationErrors
	var duplicateValue *utils.DuplicateValueError
	var mysqlErr *mysql.MySQLError

	switch {
	case errors.As(err, &invalidTransition), errors.As(err, &alreadyProcessed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &duplicateValue):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry:
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate value"})
	case errors.As(err, &missingPrerequisite):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.As(err, &invalidValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &validationErrors):
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
	default:
		config.LogError(config.GetLogger(), moduleName, functionName, "", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondBindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
