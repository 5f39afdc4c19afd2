package templates

const reviewTmpl = `
<div>
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		Hey,
	</p>
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		{{AuthorName}} left a new comment on a deliverable for "{{CampaignName}}":
	</p>
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		"{{Comment}}"
	</p>
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		Open the thread in the app to reply.
	</p>
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		All the best,<br/>
		~ The CaringSparks Team<br/>
	</p>
</div>
`

var ReviewEmail = MustacheMust(reviewTmpl)
