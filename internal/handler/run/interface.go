package run

import "github.com/gin-gonic/gin"

type IHandler interface {
	List(c *gin.Context)
	Latest(c *gin.Context)
	Trigger(c *gin.Context)
}
