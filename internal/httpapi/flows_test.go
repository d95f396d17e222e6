package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Gateway operations", func() {
	var (
		fake *fakeWorkday
		gw   *httptest.Server
	)

	BeforeEach(func() {
		fake = newFakeWorkday(GinkgoT())
	})

	JustBeforeEach(func() {
		gw = newTestGateway(GinkgoT(), fake.config())
	})

	get := func(path string) (*http.Response, map[string]any) {
		return doRequest(GinkgoT(), http.MethodGet, gw.URL+path, "tok", nil)
	}

	Context("leave overview", func() {
		BeforeEach(func() {
			fake.reply("GET "+absencePrefix+"/balances", http.StatusOK,
				`{"data":[{"absencePlan":{"descriptor":"Vacation","id":"plan-1"},"quantity":"12.5"}]}`)
			fake.reply("GET "+absencePrefix+"/workers/wid-1/eligibleAbsenceTypes", http.StatusOK,
				`{"data":[{"id":"type-1","descriptor":"Vacation"}]}`)
			fake.reply("GET "+absencePrefix+"/workers/wid-1/leavesOfAbsence", http.StatusOK, `{"data":[]}`)
		})

		It("combines the four collections and resolves the caller once", func() {
			fake.reply("GET "+absencePrefix+"/workers/wid-1/timeOffDetails", http.StatusOK,
				`{"data":[{"date":"2025-03-01","quantity":"8"}]}`)

			resp, body := get("/api/getLeaveBalances")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body).To(HaveKeyWithValue("success", true))
			Expect(body["leaveBalances"]).To(HaveLen(1))
			Expect(body["eligibleAbsenceTypes"]).To(HaveLen(1))
			Expect(body["leavesOfAbsence"]).To(BeEmpty())
			Expect(body["bookedTimeOff"]).To(HaveLen(1))
			Expect(fake.lookups()).To(Equal(1))
		})

		It("fails as a whole when one collection fails", func() {
			fake.reply("GET "+absencePrefix+"/workers/wid-1/timeOffDetails", http.StatusServiceUnavailable, "maintenance")

			resp, body := get("/api/getLeaveBalances")
			Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
			Expect(body).To(HaveKeyWithValue("success", false))
			Expect(body).To(HaveKeyWithValue("error", "WorkdayError"))
			Expect(body).To(HaveKeyWithValue("details", "maintenance"))
			Expect(body).NotTo(HaveKey("leaveBalances"))
		})
	})

	Context("identity resolution", func() {
		It("does not share a resolved identity across inbound requests", func() {
			fake.reply("GET "+commonPrefix+"/workers/wid-1/inboxTasks", http.StatusOK, `{"data":[]}`)

			for range 2 {
				resp, _ := get("/api/getInboxTasks")
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
			}
			Expect(fake.lookups()).To(Equal(2))
		})

		It("surfaces an empty current-user report as a gateway fault", func() {
			fake.reply("GET /ccx/service/customreport2/acme/svasireddy/COPILOT_CURRENTUSER", http.StatusOK, `{"Report_Entry":[]}`)

			resp, body := get("/api/getPaySlips")
			Expect(resp.StatusCode).To(Equal(http.StatusBadGateway))
			Expect(body).To(HaveKeyWithValue("message", "Workday worker search report returned no entries"))
		})
	})

	Context("learning content search", func() {
		BeforeEach(func() {
			fake.handle("GET /ccx/api/learning/v1/acme/content", func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()
				Expect(r.URL.Query()["skills"]).To(Equal([]string{"go", "kubernetes"}))
				Expect(r.URL.Query()["topics"]).To(Equal([]string{"cloud"}))
				_, _ = w.Write([]byte(`{"data":[{"id":"c-1","descriptor":"Go"},{"id":"c-2","descriptor":"K8s"},{"descriptor":"No id"}]}`))
			})
			fake.reply("GET /ccx/api/learning/v1/acme/content/c-1/lessons", http.StatusOK,
				`{"data":[{"id":"l-1","order":1}]}`)
			fake.reply("GET /ccx/api/learning/v1/acme/content/c-2/lessons", http.StatusInternalServerError, `{"error":"boom"}`)
		})

		It("isolates lesson failures to their own item", func() {
			resp, body := get("/api/searchLearningContent?skills=go&skills=kubernetes&topics=cloud")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body).To(HaveKeyWithValue("total", BeNumerically("==", 3)))

			content := body["content"].([]any)
			Expect(content[0]).To(HaveKeyWithValue("lessons", HaveLen(1)))
			Expect(content[1]).To(HaveKeyWithValue("lessons", BeEmpty()))
			Expect(content[2]).To(HaveKeyWithValue("lessons", BeEmpty()))
		})
	})

	Context("business title change", func() {
		It("submits the proposed title for the caller", func() {
			fake.handle("POST "+commonPrefix+"/workers/wid-1/businessTitleChanges", func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()
				Expect(r.URL.Query().Get("type")).To(Equal("me"))
				_, _ = w.Write([]byte(`{"id":"chg-1"}`))
			})

			resp, body := doRequest(GinkgoT(), http.MethodPost, gw.URL+"/api/changeBusinessTitle", "tok",
				strings.NewReader(`{"proposedBusinessTitle":"Staff Engineer"}`))
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body).To(HaveKeyWithValue("message", "Business title change request submitted successfully"))
			Expect(body).To(HaveKeyWithValue("changeDetails", HaveKeyWithValue("id", "chg-1")))
		})
	})
})
