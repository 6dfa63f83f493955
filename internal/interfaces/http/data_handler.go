package http

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/csvimport"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// DataHandler importación CSV asíncrona.
type DataHandler struct {
	svc *csvimport.Service
}

// NewDataHandler construye el handler.
func NewDataHandler(svc *csvimport.Service) *DataHandler {
	return &DataHandler{svc: svc}
}

// Template godoc
// @Summary      Plantilla CSV
// @Description  Encabezados de los mapeos activos del tipo de dato, con BOM UTF-8.
// @Tags         data
// @Security     Bearer
// @Produce      text/csv
// @Param        data_type  query  string  true  "item | supplier | warehouse | machine | purchase_order | sales_order | production_plan | parts_used"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/data/csv-template [get]
func (h *DataHandler) Template(c *fiber.Ctx) error {
	dataType := c.Query("data_type")
	out, err := h.svc.Template(c.UserContext(), dataType)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s_template.csv"`, dataType))
	return c.Send(out)
}

// Import godoc
// @Summary      Importar CSV
// @Description  Registra la tarea y responde de inmediato; el avance se consulta con el task_id.
// @Tags         data
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true   "Archivo CSV"
// @Param        data_type  formData  string  true   "Tipo de dato"
// @Param        encoding   formData  string  false  "utf-8 (default) | shift_jis"
// @Success      202  {object}  dto.ImportAcceptedResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/data/import-csv [post]
func (h *DataHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "MISSING_FILE", "el campo file es obligatorio")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "INVALID_FILE", "no se pudo leer el archivo")
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return badRequest(c, "INVALID_FILE", "no se pudo leer el archivo")
	}
	in := csvimport.SubmitInput{
		DataType: c.FormValue("data_type"),
		Encoding: c.FormValue("encoding"),
		FileName: fh.Filename,
		Content:  content,
	}
	if uid := GetUserID(c); uid != "" {
		in.UserID = &uid
	}
	task, err := h.svc.Submit(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.ImportAcceptedResponse{
		TaskID:  task.ID,
		Message: "importación encolada",
	})
}

// Poll godoc
// @Summary      Estado de una importación
// @Tags         data
// @Security     Bearer
// @Produce      json
// @Param        task_id  path  string  true  "Task ID"
// @Success      200  {object}  dto.ImportTaskResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/data/import-tasks/{task_id} [get]
func (h *DataHandler) Poll(c *fiber.Ctx) error {
	id, err := pathID(c, "task_id")
	if err != nil {
		return writeError(c, err)
	}
	task, err := h.svc.Poll(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toImportTaskResponse(task))
}

// Cancel godoc
// @Summary      Cancelar una importación
// @Description  Sólo en PENDING o STARTED; las filas ya escritas se conservan.
// @Tags         data
// @Security     Bearer
// @Produce      json
// @Param        task_id  path  string  true  "Task ID"
// @Success      200  {object}  dto.ImportTaskResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/data/import-tasks/{task_id}/cancel [post]
func (h *DataHandler) Cancel(c *fiber.Ctx) error {
	id, err := pathID(c, "task_id")
	if err != nil {
		return writeError(c, err)
	}
	task, err := h.svc.Cancel(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toImportTaskResponse(task))
}

func toImportTaskResponse(t *entity.AsyncTask) dto.ImportTaskResponse {
	out := dto.ImportTaskResponse{
		TaskID:    t.ID,
		Name:      t.Name,
		DataType:  t.DataType,
		Status:    string(t.Status),
		Progress:  t.Progress,
		Total:     t.Total,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Result != nil {
		out.Result = t.Result
	}
	return out
}
