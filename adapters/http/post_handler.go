package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	postUC "github.com/khoahotran/devconnector/internal/application/usecase/post"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type PostHandler struct {
	createUC *postUC.CreatePostUseCase
	getUC    *postUC.GetPostUseCase
	listUC   *postUC.ListPostsUseCase
	deleteUC *postUC.DeletePostUseCase
	logger   logger.Logger
}

func NewPostHandler(
	createUC *postUC.CreatePostUseCase,
	getUC *postUC.GetPostUseCase,
	listUC *postUC.ListPostsUseCase,
	deleteUC *postUC.DeletePostUseCase,
	log logger.Logger,
) *PostHandler {
	return &PostHandler{
		createUC: createUC,
		getUC:    getUC,
		listUC:   listUC,
		deleteUC: deleteUC,
		logger:   log,
	}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.Error(err)
		return
	}

	var input postUC.CreatePostInput
	if err := bindJSON(c, &input); err != nil {
		c.Error(err)
		return
	}
	input.UserID = userID

	p, err := h.createUC.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPostDTO(p))
}

func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.listUC.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPostDTOs(posts))
}

func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := uuidParam(c, "id", "post")
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.getUC.Execute(c.Request.Context(), postUC.GetPostInput{PostID: postID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPostDTO(p))
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.Error(err)
		return
	}
	postID, err := uuidParam(c, "id", "post")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), postUC.DeletePostInput{PostID: postID, UserID: userID}); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Post removed"})
}
