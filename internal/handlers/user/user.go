package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shopmall_back_end/internal/models"
	"shopmall_back_end/internal/store"
	"shopmall_back_end/internal/utils"
)

// Le champ password porte le tag json:"-" sur models.User : aucune
// réponse de ce package ne peut le contenir.

func GetAllUsers(c *gin.Context) {
	users, err := store.Users.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// GetUserByID accepte la clé de partition en query string (?email=) ;
// sans elle, le store la résout via l'index id → email.
func GetUserByID(c *gin.Context) {
	u, err := store.Users.GetByID(c.Request.Context(), c.Param("id"), c.Query("email"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

func GetUserByEmail(c *gin.Context) {
	u, err := store.Users.GetByEmail(c.Request.Context(), c.Param("email"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

func CreateUser(c *gin.Context) {
	var input struct {
		ID       string  `json:"id"`
		Email    string  `json:"email"`
		Name     string  `json:"name"`
		Password string  `json:"password"`
		UserType string  `json:"user_type"`
		Address  *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.UserType == "" {
		input.UserType = models.UserTypeCustomer
	}
	if input.ID == "" {
		input.ID = uuid.NewString()
	}

	now := time.Now().UTC()
	u := models.User{
		ID:        input.ID,
		Email:     input.Email,
		Name:      input.Name,
		Password:  input.Password,
		UserType:  input.UserType,
		Address:   input.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if validation := u.Validate(); !validation.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation échouée",
			"details": validation.Errors,
		})
		return
	}

	// ✅ Hash du mot de passe avant persistance
	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hash mot de passe"})
		return
	}
	u.Password = hashed

	err = store.Users.Create(c.Request.Context(), &u)
	if errors.Is(err, store.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, u)
}

// UpdateUser remplace les champs modifiables d'un utilisateur. L'email
// est la clé de partition : il ne change jamais par cette opération.
func UpdateUser(c *gin.Context) {
	var input struct {
		Email    string  `json:"email"`
		Name     *string `json:"name"`
		Password *string `json:"password"`
		UserType *string `json:"user_type"`
		Address  *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	existing, err := store.Users.GetByID(ctx, c.Param("id"), input.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	u := *existing
	patch := models.UserPatch{
		Name:     input.Name,
		UserType: input.UserType,
		Address:  input.Address,
	}
	if input.Password != nil {
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hash mot de passe"})
			return
		}
		patch.Password = &hashed
	}
	patch.Apply(&u)
	u.UpdatedAt = time.Now().UTC()

	if validation := u.Validate(); !validation.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation échouée",
			"details": validation.Errors,
		})
		return
	}

	if err := store.Users.Replace(ctx, &u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, u)
}

// PartialUpdateUser applique une mise à jour partielle. La clé de
// partition (email) vient de la query string ou du body.
func PartialUpdateUser(c *gin.Context) {
	email := c.Query("email")

	var input struct {
		Email string `json:"email"`
		models.UserPatch
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if email == "" {
		email = input.Email
	}
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "L'email est requis en query string ou dans le body"})
		return
	}

	ctx := c.Request.Context()
	existing, err := store.Users.GetByID(ctx, c.Param("id"), email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	u := *existing
	patch := input.UserPatch
	if patch.Password != nil {
		hashed, err := utils.HashPassword(*patch.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hash mot de passe"})
			return
		}
		patch.Password = &hashed
	}
	patch.Apply(&u)
	u.UpdatedAt = time.Now().UTC()

	if validation := u.Validate(); !validation.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation échouée",
			"details": validation.Errors,
		})
		return
	}

	if err := store.Users.Replace(ctx, &u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, u)
}

func DeleteUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "L'email est requis en query string"})
		return
	}

	err := store.Users.Delete(c.Request.Context(), c.Param("id"), email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Utilisateur supprimé avec succès"})
}
