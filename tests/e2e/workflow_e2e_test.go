package e2e

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Полный сценарий: организация -> участники -> проект -> задачи
func TestWorkflow_OrgProjectTask(t *testing.T) {
	adminId := uuid.NewString()
	pmId := uuid.NewString()
	memberId := uuid.NewString()
	viewerId := uuid.NewString()

	adminToken := signToken(t, adminId, "Admin")
	pmToken := signToken(t, pmId, "PM")
	memberToken := signToken(t, memberId, "Member")
	viewerToken := signToken(t, viewerId, "Viewer")

	// Создатель организации становится org_admin
	resp := makeRequest(t, http.MethodPost, baseURL+"/organization/create", adminToken,
		map[string]interface{}{"name": "e2e-workflow-" + adminId[:8]})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	org := decodeBody(t, resp)
	orgId := org["organization_id"].(string)
	require.NotEmpty(t, orgId)

	members := org["members"].([]interface{})
	require.Len(t, members, 1)
	creator := members[0].(map[string]interface{})
	assert.Equal(t, adminId, creator["user_id"])
	assert.Equal(t, "org_admin", creator["role"])

	// Админ добавляет pm, member и viewer
	for _, m := range []struct {
		userId, username, role string
	}{
		{pmId, "PM", "pm"},
		{memberId, "Member", "member"},
		{viewerId, "Viewer", "viewer"},
	} {
		resp := makeRequest(t, http.MethodPost, baseURL+"/organization/addMember", adminToken,
			map[string]interface{}{
				"organization_id": orgId,
				"user_id":         m.userId,
				"username":        m.username,
				"role":            m.role,
			})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// pm, не org_admin, не может управлять участниками организации
	resp = makeRequest(t, http.MethodPost, baseURL+"/organization/addMember", pmToken,
		map[string]interface{}{
			"organization_id": orgId,
			"user_id":         uuid.NewString(),
			"username":        "Intruder",
			"role":            "member",
		})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// pm создает проект с SLA
	resp = makeRequest(t, http.MethodPost, baseURL+"/project/create", pmToken,
		map[string]interface{}{
			"organization_id": orgId,
			"name":            "backend",
			"sla_hours":       24,
		})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	project := decodeBody(t, resp)["project"].(map[string]interface{})
	projectId := project["project_id"].(string)
	assert.Equal(t, true, project["is_active"])
	assert.Equal(t, float64(24), project["sla_hours"])

	// member не может создавать проекты
	resp = makeRequest(t, http.MethodPost, baseURL+"/project/create", memberToken,
		map[string]interface{}{"organization_id": orgId, "name": "rogue"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// member создает задачу
	resp = makeRequest(t, http.MethodPost, baseURL+"/task/create", memberToken,
		map[string]interface{}{
			"project_id": projectId,
			"title":      "fix login",
		})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	task := decodeBody(t, resp)["task"].(map[string]interface{})
	taskId := task["task_id"].(string)
	assert.Equal(t, "To Do", task["status"])

	// viewer не может создавать задачи
	resp = makeRequest(t, http.MethodPost, baseURL+"/task/create", viewerToken,
		map[string]interface{}{"project_id": projectId, "title": "nope"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Done без исполнителя запрещен
	resp = makeRequest(t, http.MethodPost, baseURL+"/task/setStatus", memberToken,
		map[string]interface{}{"task_id": taskId, "status": "Done"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody(t, resp)
	errDetail := body["error"].(map[string]interface{})
	assert.Equal(t, "NO_ASSIGNEE", errDetail["code"])

	// Назначаем исполнителя и завершаем
	resp = makeRequest(t, http.MethodPost, baseURL+"/task/assign", memberToken,
		map[string]interface{}{"task_id": taskId, "assignee_id": memberId})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = makeRequest(t, http.MethodPost, baseURL+"/task/setStatus", memberToken,
		map[string]interface{}{"task_id": taskId, "status": "Done"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	done := decodeBody(t, resp)["task"].(map[string]interface{})
	assert.Equal(t, "Done", done["status"])

	// Комментарий и трекинг времени
	resp = makeRequest(t, http.MethodPost, baseURL+"/task/comment", memberToken,
		map[string]interface{}{"task_id": taskId, "body": "done and verified"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = makeRequest(t, http.MethodPost, baseURL+"/task/logTime", memberToken,
		map[string]interface{}{"task_id": taskId, "minutes": 45})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	logged := decodeBody(t, resp)
	assert.Equal(t, float64(45), logged["minutes"])
	assert.Equal(t, float64(45), logged["task"].(map[string]interface{})["tracked_minutes"])

	// viewer видит список задач
	resp = makeRequest(t, http.MethodGet, baseURL+"/task/list?project_id="+projectId, viewerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tasks := decodeBody(t, resp)["tasks"].([]interface{})
	require.Len(t, tasks, 1)

	// Архивация скрывает проект из списка
	resp = makeRequest(t, http.MethodPost, baseURL+"/project/archive", pmToken,
		map[string]interface{}{"project_id": projectId})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = makeRequest(t, http.MethodGet, baseURL+"/project/list?organization_id="+orgId, pmToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	projects := decodeBody(t, resp)["projects"].([]interface{})
	assert.Len(t, projects, 0)

	// Повторная архивация - NOT_FOUND
	resp = makeRequest(t, http.MethodPost, baseURL+"/project/archive", pmToken,
		map[string]interface{}{"project_id": projectId})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestWorkflow_DuplicateOrgName(t *testing.T) {
	adminToken := signToken(t, uuid.NewString(), "Admin")
	name := "e2e-dup-" + uuid.NewString()[:8]

	resp := makeRequest(t, http.MethodPost, baseURL+"/organization/create", adminToken,
		map[string]interface{}{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = makeRequest(t, http.MethodPost, baseURL+"/organization/create", adminToken,
		map[string]interface{}{"name": name})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody(t, resp)
	errDetail := body["error"].(map[string]interface{})
	assert.Equal(t, "ORG_EXISTS", errDetail["code"])
}

func TestWorkflow_Unauthorized(t *testing.T) {
	resp := makeRequest(t, http.MethodGet, baseURL+"/analytics?organization_id="+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestWorkflow_NonMemberForbidden(t *testing.T) {
	adminToken := signToken(t, uuid.NewString(), "Admin")
	strangerToken := signToken(t, uuid.NewString(), "Stranger")

	resp := makeRequest(t, http.MethodPost, baseURL+"/organization/create", adminToken,
		map[string]interface{}{"name": "e2e-private-" + uuid.NewString()[:8]})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	orgId := decodeBody(t, resp)["organization_id"].(string)

	resp = makeRequest(t, http.MethodGet, baseURL+"/organization/get?organization_id="+orgId, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestHealth_NoAuthRequired(t *testing.T) {
	resp := makeRequest(t, http.MethodGet, baseURL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
