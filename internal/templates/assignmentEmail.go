package templates

const responseTmpl = `
<div>
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		Hey {{OwnerName}},
	</p>
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		{{InfluencerId}} has {{Decision}} your campaign "{{CampaignName}}".
	</p>
	{{#Message}}
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		They left you a note: "{{Message}}"
	</p>
	{{/Message}}
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		You can follow their progress from your campaign dashboard.
	</p>
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		All the best,<br/>
		~ The CaringSparks Team<br/>
	</p>
</div>
`

const completionTmpl = `
<div>
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		Hey {{OwnerName}},
	</p>
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		{{InfluencerId}} has finished all {{PostCount}} deliverables for your campaign "{{CampaignName}}" and is now eligible to request payment.
	</p>
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		Please review the submitted posts from your campaign dashboard.
	</p>
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		All the best,<br/>
		~ The CaringSparks Team<br/>
	</p>
</div>
`

const overdueTmpl = `
<div>
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		Hey,
	</p>
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		Just a friendly reminder that your deliverables for "{{CampaignName}}" were due on {{DueDate}}. Head over to the app to submit your posts as soon as you can.
	</p>
	<p style="font-size:14px; color:#000000; margin:0 0 12px 0;">
		All the best,<br/>
		~ The CaringSparks Team<br/>
	</p>
</div>
`

var (
	ResponseEmail   = MustacheMust(responseTmpl)
	CompletionEmail = MustacheMust(completionTmpl)
	OverdueEmail    = MustacheMust(overdueTmpl)
)
